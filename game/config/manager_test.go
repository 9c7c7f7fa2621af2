package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/sentry-grid/game/engine"
)

func createValidConfig(name string) *engine.WorldConfig {
	end := engine.Position{X: 4, Y: 2}
	return &engine.WorldConfig{
		Name:        name,
		Description: "Test world",
		Obstacles: []engine.ObstacleSpec{
			{Kind: "guard", Location: engine.Position{X: 1, Y: 1}},
			{Kind: "fence", Location: engine.Position{X: 4, Y: -2}, End: &end},
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.WorldConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func writeRawFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

const yamlWorld = `name: Vault
description: Laser corridor
obstacles:
  - kind: laser
    location: {x: 0, y: 0}
    direction: E
    duration: 2
  - kind: camera
    location: {x: 5, y: 5}
    direction: N
`

func TestNewManager(t *testing.T) {
	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/nonexistent/sentry/configs"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory uses built-in world", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := m.GetDefault(); got == nil || got.Name != engine.DefaultWorldConfig().Name {
			t.Errorf("Expected built-in default, got %+v", got)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "alpha", createValidConfig("Alpha"))
	writeRawFile(t, dir, "vault.yaml", yamlWorld)
	writeRawFile(t, dir, "broken.json", `{"name": "Broken", "obstacles": [`)
	writeConfigFile(t, dir, "invalid", &engine.WorldConfig{Name: "Invalid"})

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load json config", func(t *testing.T) {
		config, err := m.LoadConfig("alpha")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Alpha" || len(config.Obstacles) != 2 {
			t.Errorf("Unexpected config: %+v", config)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := m.LoadConfig("alpha.json")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Alpha" {
			t.Errorf("Expected Alpha, got %s", config.Name)
		}
	})

	t.Run("load yaml config", func(t *testing.T) {
		config, err := m.LoadConfig("vault")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Obstacles[0].Duration != 2 {
			t.Errorf("Expected laser duration 2, got %d", config.Obstacles[0].Duration)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := m.LoadConfig("alpha")
		second, _ := m.LoadConfig("alpha")
		if first != second {
			t.Error("Expected cached config to be returned")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := m.LoadConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		if _, err := m.LoadConfig("invalid"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if _, err := m.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("prefers classic", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "alpha", createValidConfig("Alpha"))
		writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Name != "Classic" {
			t.Errorf("Expected Classic default, got %s", m.GetDefault().Name)
		}
	})

	t.Run("falls back to first valid", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "aaa", &engine.WorldConfig{Name: "Invalid"})
		writeRawFile(t, dir, "zeta.yml", yamlWorld)

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Name != "Vault" {
			t.Errorf("Expected Vault default, got %s", m.GetDefault().Name)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
		writeConfigFile(t, dir, "beta", createValidConfig("Beta"))

		m, _ := NewManager(dir)
		if err := m.SetDefault("beta"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if m.GetDefault().Name != "Beta" {
			t.Errorf("Expected Beta default, got %s", m.GetDefault().Name)
		}
		if err := m.SetDefault("nope"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	writeRawFile(t, dir, "vault.yaml", yamlWorld)
	writeConfigFile(t, dir, "invalid", &engine.WorldConfig{Name: "Invalid"})
	writeRawFile(t, dir, "notes.txt", "not a config")
	if err := os.Mkdir(filepath.Join(dir, "subdir.json"), 0755); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}

	if configs[0].ConfigID != "classic" || configs[0].Filename != "classic.json" || configs[0].ObstacleCount != 2 {
		t.Errorf("Unexpected first config: %+v", configs[0])
	}
	if configs[1].ConfigID != "vault" || configs[1].Name != "Vault" || configs[1].Filename != "vault.yaml" {
		t.Errorf("Unexpected second config: %+v", configs[1])
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	writeConfigFile(t, dir, "classic", createValidConfig("Classic Revised"))

	if cached, _ := m.LoadConfig("classic"); cached.Name != "Classic" {
		t.Errorf("Expected cached config before refresh, got %s", cached.Name)
	}

	m.RefreshCache()

	if m.GetDefault().Name != "Classic Revised" {
		t.Errorf("Expected refreshed default, got %s", m.GetDefault().Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"classic", "alpha", "beta"} {
		writeConfigFile(t, dir, name, createValidConfig(name))
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		for _, name := range []string{"classic", "alpha", "beta"} {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				if _, err := m.LoadConfig(name); err != nil {
					errs <- err
				}
			}(name)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent load failed: %v", err)
	}
}
