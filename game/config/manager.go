package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"gameroom/game/engine"
	"gameroom/game/service"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Manager handles table preset loading and caching
type Manager struct {
	presetDir     string
	defaultPreset *service.TablePreset
	presets       map[string]*service.TablePreset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(presetDir string) (*Manager, error) {
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}

	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*service.TablePreset),
	}

	if err := m.loadDefaultPreset(); err != nil {
		return nil, fmt.Errorf("failed to load default preset: %w", err)
	}

	return m, nil
}

// Preset loads a table preset by name
func (m *Manager) Preset(name string) (*service.TablePreset, error) {
	m.mu.RLock()
	// Check cache first
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if preset, exists := m.presets[name]; exists {
		return preset, nil
	}

	// Add .yaml extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		filename = name + ".yaml"
	}

	presetPath := filepath.Join(m.presetDir, filename)

	data, err := os.ReadFile(presetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset service.TablePreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}

	if err := ValidatePreset(&preset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	// Cache the preset
	m.presets[name] = &preset
	return &preset, nil
}

// ListPresets returns information about all available presets
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var presets []*service.PresetInfo

	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}

		name := trimPresetExt(entry.Name())

		preset, err := m.Preset(name)
		if err != nil {
			// Skip invalid presets
			continue
		}

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    name, // This is the identifier to use for room creation
			Name:        preset.Name,
			Description: preset.Description,
			MaxSeats:    preset.MaxSeats,
			Colors:      len(preset.Palette),
		})
	}

	return presets, nil
}

// Default returns the default preset
func (m *Manager) Default() *service.TablePreset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	preset, err := m.Preset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache reloads all cached presets from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.presets = make(map[string]*service.TablePreset)
	m.mu.Unlock()

	return m.loadDefaultPreset()
}

// loadDefaultPreset loads the default preset
func (m *Manager) loadDefaultPreset() error {
	// Try to load classic.yaml as default
	preset, err := m.Preset("classic")
	if err != nil {
		// Fall back to the first available preset
		presets, listErr := m.ListPresets()
		if listErr != nil || len(presets) == 0 {
			m.mu.Lock()
			m.defaultPreset = BuiltinPreset()
			m.mu.Unlock()
			return nil
		}

		preset, err = m.Preset(trimPresetExt(presets[0].Filename))
		if err != nil {
			m.mu.Lock()
			m.defaultPreset = BuiltinPreset()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultPreset = preset
	m.mu.Unlock()
	return nil
}

// ValidatePreset checks that a preset describes a playable table.
func ValidatePreset(p *service.TablePreset) error {
	if p.Name == "" {
		return errors.New("preset name is required")
	}
	if p.MaxSeats < 2 || p.MaxSeats > engine.MaxSeats {
		return fmt.Errorf("max_seats must be between 2 and %d, got %d", engine.MaxSeats, p.MaxSeats)
	}
	if len(p.Palette) < 2 {
		return fmt.Errorf("palette needs at least 2 colors, got %d", len(p.Palette))
	}
	seen := make(map[engine.Color]bool, len(p.Palette))
	for i, c := range p.Palette {
		if !validHexCode(c.Code) {
			return fmt.Errorf("palette[%d]: invalid color code %q", i, c.Code)
		}
		color := engine.Color{X: c.X, Y: c.Y, Code: c.Code}
		if seen[color] {
			return fmt.Errorf("palette[%d]: duplicate color %q at (%d,%d)", i, c.Code, c.X, c.Y)
		}
		seen[color] = true
	}
	return nil
}

// BuiltinPreset returns the preset used when no preset directory is configured.
func BuiltinPreset() *service.TablePreset {
	return &service.TablePreset{
		Name:        "default",
		Description: "Default four-color table",
		MaxSeats:    4,
		Palette: []service.PresetColor{
			{X: 0, Y: 0, Code: "#FF0000"},
			{X: 1, Y: 0, Code: "#00FF00"},
			{X: 0, Y: 1, Code: "#0000FF"},
			{X: 1, Y: 1, Code: "#FFFF00"},
		},
	}
}

func isPresetFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func trimPresetExt(name string) string {
	name = strings.TrimSuffix(name, ".yaml")
	return strings.TrimSuffix(name, ".yml")
}

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
