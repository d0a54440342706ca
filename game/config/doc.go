// Package config provides deal preset management and runtime settings for the
// Freecell server.
//
// The config package handles:
//   - Loading deal presets from JSON files
//   - Preset validation
//   - Default preset management
//   - Preset discovery and listing
//   - Runtime settings from environment variables
//
// Preset Format:
//
// Deal presets are stored as JSON files in the configs directory. Each preset
// names a numbered deal:
//
//	{
//	  "name": "Classic",
//	  "description": "Deal #1, the first numbered deal",
//	  "seed": 1,
//	  "difficulty": "easy"
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	deal, err := manager.LoadConfig("classic")
//	defaultDeal := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// Settings:
//
// LoadSettings reads session lifetime, cleanup interval, bulk move limit,
// default preset and HTTP timeouts from FREECELL_* variables, falling back to
// built-in defaults.
package config
