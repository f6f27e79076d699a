// Package config provides table preset management for the game room server.
//
// The config package handles:
//   - Loading table presets from YAML files
//   - Preset validation and verification
//   - Default preset management
//   - Preset discovery and listing
//
// Preset Format:
//
// Table presets are stored as YAML files in the presets directory.
// Each preset defines:
//   - A display name and description
//   - The maximum number of seats at the table
//   - The color palette used by the sequence game
//
// Usage:
//
//	manager, err := config.NewManager("presets")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific preset
//	preset, err := manager.Preset("classic")
//
//	// Get the default preset
//	def := manager.Default()
//
//	// List available presets
//	presets, err := manager.ListPresets()
//
// Validation:
//
// All presets are validated for:
//   - Seat counts within the engine's table bounds
//   - Palette colors with well-formed hex codes
//   - No duplicate colors in the palette
package config
