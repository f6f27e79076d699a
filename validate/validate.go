// Command validate provides a small CLI that validates table preset YAML
// files in the ../presets directory. It checks:
//   - YAML structure and required fields
//   - Seat bounds against the engine's table limit
//   - Palette size, well-formed hex color codes
//   - Uniqueness of colors and of their board positions
//   - Non-negative board coordinates
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gameroom/game/engine"
	"gameroom/game/service"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validatePreset loads and validates a single preset YAML file.
func validatePreset(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var preset service.TablePreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse YAML: %v", err))
		return result
	}

	if preset.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing preset name")
	}

	if preset.MaxSeats < 2 || preset.MaxSeats > engine.MaxSeats {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("max_seats must be between 2 and %d, got %d", engine.MaxSeats, preset.MaxSeats))
	}

	if len(preset.Palette) < 2 {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Palette needs at least 2 colors, got %d", len(preset.Palette)))
	}

	seenColors := make(map[engine.Color]bool)
	seenPositions := make(map[[2]int]bool)
	for i, c := range preset.Palette {
		if !validHexCode(c.Code) {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("palette[%d]: invalid color code %q (expected #RRGGBB)", i, c.Code))
		}
		if c.X < 0 || c.Y < 0 {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("palette[%d]: negative board position (%d,%d)", i, c.X, c.Y))
		}

		color := engine.Color{X: c.X, Y: c.Y, Code: c.Code}
		if seenColors[color] {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("palette[%d]: duplicate color %q at (%d,%d)", i, c.Code, c.X, c.Y))
		}
		seenColors[color] = true

		pos := [2]int{c.X, c.Y}
		if seenPositions[pos] {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("palette[%d]: board position (%d,%d) used twice", i, c.X, c.Y))
		}
		seenPositions[pos] = true
	}

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ %d seats, %d palette colors", preset.MaxSeats, len(preset.Palette)))
	}

	return result
}

// validHexCode reports whether code is a #RRGGBB color.
func validHexCode(code string) bool {
	if len(code) != 7 || code[0] != '#' {
		return false
	}
	for _, r := range code[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// main scans ../presets for YAML files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	presetDir := "../presets"
	files, err := filepath.Glob(filepath.Join(presetDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}
	more, _ := filepath.Glob(filepath.Join(presetDir, "*.yml"))
	files = append(files, more...)

	allValid := true
	for _, file := range files {
		result := validatePreset(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All presets are valid!")
	} else {
		fmt.Println("❌ Some presets have errors")
		os.Exit(1)
	}
}
