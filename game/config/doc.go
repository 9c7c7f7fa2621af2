// Package config provides world configuration management for Sentry Grid.
//
// The config package handles:
//   - Loading world configurations from JSON or YAML files
//   - Configuration validation through the engine
//   - Default configuration selection
//   - Configuration discovery and listing
//
// Configuration Format:
//
// A world file names the world and lists its starting obstacles:
//
//	{
//	  "name": "Classic",
//	  "description": "One of everything",
//	  "obstacles": [
//	    {"kind": "guard", "location": {"x": 2, "y": 2}},
//	    {"kind": "fence", "location": {"x": 6, "y": 0}, "end": {"x": 6, "y": 4}},
//	    {"kind": "sensor", "location": {"x": 12, "y": 3}, "range": 1.5},
//	    {"kind": "camera", "location": {"x": 3, "y": 8}, "direction": "S"},
//	    {"kind": "laser", "location": {"x": 15, "y": 0}, "direction": "S", "duration": 3}
//	  ],
//	  "view": {"top_left": {"x": 0, "y": 0}, "bottom_right": {"x": 15, "y": 10}},
//	  "routes": [{"name": "across", "start": {"x": 0, "y": 0}, "goal": {"x": 14, "y": 2}}]
//	}
//
// The same fields are accepted in .yaml and .yml files. Unknown fields are
// rejected.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	worldConfig, err := manager.LoadConfig("vault")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic when present, otherwise the first valid file in
// the directory, otherwise the built-in courtyard world.
package config
