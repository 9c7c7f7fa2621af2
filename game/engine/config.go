package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateWorldConfig validates a world configuration for correctness
func ValidateWorldConfig(config *WorldConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Every obstacle must be constructible
	for i, spec := range config.Obstacles {
		if _, err := Build(spec); err != nil {
			return fmt.Errorf("config validation: obstacles[%d]: %w", i, err)
		}
	}

	// Validate view window
	if config.View != nil {
		if config.View.Inverted() {
			return fmt.Errorf("config validation: view bottom_right (%d,%d) must be south-east of top_left (%d,%d)",
				config.View.BottomRight.X, config.View.BottomRight.Y, config.View.TopLeft.X, config.View.TopLeft.Y)
		}
		if config.View.Exceeds(MaxRenderCells) {
			return fmt.Errorf("config validation: view covers more than %d cells", MaxRenderCells)
		}
	}

	// Validate routes
	for i, route := range config.Routes {
		if route.Name == "" {
			return fmt.Errorf("config validation: routes[%d]: name is required", i)
		}
		if _, err := ParseMoves(route.Moves); err != nil {
			return fmt.Errorf("config validation: routes[%d] (%s): %w", i, route.Name, err)
		}
	}

	if config.MaxSearchNodes < 0 {
		return fmt.Errorf("config validation: max_search_nodes must not be negative, got %d", config.MaxSearchNodes)
	}

	return nil
}

// DecodeWorldConfig parses a world configuration. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func DecodeWorldConfig(filename string, data []byte) (*WorldConfig, error) {
	var config WorldConfig

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	return &config, nil
}

// LoadWorldConfig loads and validates a world configuration file
func LoadWorldConfig(filename string) (*WorldConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeWorldConfig(filename, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}

	if err := ValidateWorldConfig(config); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}

	return config, nil
}

// DefaultWorldConfig returns the built-in world used when no config files are available
func DefaultWorldConfig() *WorldConfig {
	fenceEnd := Position{X: 6, Y: 4}
	return &WorldConfig{
		Name:        "courtyard",
		Description: "A small courtyard with one of each obstacle",
		Obstacles: []ObstacleSpec{
			{Kind: string(KindGuard), Location: Position{X: 2, Y: 2}},
			{Kind: string(KindFence), Location: Position{X: 6, Y: 0}, End: &fenceEnd},
			{Kind: string(KindSensor), Location: Position{X: 12, Y: 3}, Range: 1.5},
			{Kind: string(KindCamera), Location: Position{X: 3, Y: 8}, Direction: string(South)},
			{Kind: string(KindLaser), Location: Position{X: 15, Y: 0}, Direction: string(South), Duration: 3},
		},
		View: &Window{
			TopLeft:     Position{X: 0, Y: 0},
			BottomRight: Position{X: 15, Y: 10},
		},
		Routes: []Route{
			{Name: "across", Start: Position{X: 0, Y: 0}, Goal: Position{X: 14, Y: 2}},
		},
	}
}
