package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/sentry-grid/api"
	"github.com/wricardo/sentry-grid/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Sentry Grid Server" {
		t.Errorf("Expected app name Sentry Grid Server, got %s", AppName)
	}
}

func writeWorld(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

const guardWorld = `{
  "name": "Guarded",
  "description": "One guard",
  "obstacles": [{"kind": "guard", "location": {"x": 1, "y": 0}}]
}`

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "guarded.json", guardWorld)

	svcs, err := initializeServices(dir, "")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svcs.world == nil || svcs.sessions == nil || svcs.configs == nil {
		t.Fatal("Expected services to be initialized")
	}

	info, err := svcs.world.CreateSession(context.Background(), "guarded")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ObstacleCount != 1 {
		t.Errorf("Expected 1 obstacle, got %d", info.ObstacleCount)
	}
	if svcs.sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", svcs.sessions.Count())
	}
}

func TestInitializeServices_DefaultWorld(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "guarded.json", guardWorld)
	writeWorld(t, dir, "open.json", `{"name": "Open", "description": "Nothing", "obstacles": []}`)

	svcs, err := initializeServices(dir, "guarded")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	info, err := svcs.world.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.ObstacleCount != 1 {
		t.Errorf("Expected the guarded world as default, got %d obstacles", info.ObstacleCount)
	}

	if _, err := initializeServices(dir, "missing"); err == nil {
		t.Error("Expected error for an unknown default world")
	}
}

func TestReloadConfigs(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "guarded.json", guardWorld)

	svcs, err := initializeServices(dir, "guarded")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	writeWorld(t, dir, "guarded.json", `{"name": "Guarded Twice", "description": "Two guards", "obstacles": [
		{"kind": "guard", "location": {"x": 1, "y": 0}},
		{"kind": "guard", "location": {"x": 2, "y": 0}}
	]}`)
	reloadConfigs(svcs.configs, "guarded")

	if got := svcs.configs.GetDefault().Name; got != "Guarded Twice" {
		t.Errorf("Expected reloaded default, got %s", got)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices("/non/existent/path", ""); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestRepositoryConfigs(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	svcs, err := initializeServices("configs", "")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	configs, err := svcs.world.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) == 0 {
		t.Error("Expected shipped configs to be valid")
	}
}

func TestRootCommandDefaults(t *testing.T) {
	cmd := newRootCommand()

	want := map[string]bool{"server": false, "stdio-mcp": false, "console": false}
	for _, sub := range cmd.Commands {
		if _, ok := want[sub.Name]; ok {
			want[sub.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Missing subcommand %s", name)
		}
	}

	names := map[string]bool{}
	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			names[name] = true
		}
	}
	for _, name := range []string{"port", "host", "config-dir", "default-world", "debug", "ngrok", "ngrok-auth", "ngrok-domain"} {
		if !names[name] {
			t.Errorf("Missing flag --%s", name)
		}
	}
}

func TestServerOptionsAddr(t *testing.T) {
	opts := serverOptions{host: "127.0.0.1", port: 9090}
	if opts.addr() != "127.0.0.1:9090" {
		t.Errorf("Unexpected addr %s", opts.addr())
	}
}

func TestAPIHealthy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"ok", http.StatusOK, true},
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, false},
		{"unavailable", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/healthz" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte("body"))
			}))
			defer server.Close()

			if got := apiHealthy(server.URL); got != tt.want {
				t.Errorf("apiHealthy with status %d = %v, expected %v", tt.status, got, tt.want)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		if apiHealthy(url) {
			t.Error("Expected a closed server to be unhealthy")
		}
	})
}

func TestConsoleEngine(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "guarded.json", guardWorld)

	eng, err := consoleEngine(dir, "")
	if err != nil {
		t.Fatalf("Empty console world failed: %v", err)
	}
	if eng.ObstacleCount() != 0 {
		t.Errorf("Expected empty world, got %d obstacles", eng.ObstacleCount())
	}

	eng, err = consoleEngine(dir, "guarded")
	if err != nil {
		t.Fatalf("Seeded console world failed: %v", err)
	}
	if eng.ObstacleCount() != 1 {
		t.Errorf("Expected 1 obstacle, got %d", eng.ObstacleCount())
	}

	if _, err := consoleEngine(dir, "missing"); err == nil {
		t.Error("Expected error for unknown world")
	}
}

func TestMCPEndpoint(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "guarded.json", guardWorld)

	svcs, err := initializeServices(dir, "")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	apiServer := httptest.NewServer(api.NewServer(svcs.world, nil))
	defer apiServer.Close()

	router := newMainRouter(api.NewServer(svcs.world, nil), mcp.NewClient(apiServer.URL))

	t.Run("rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var resp struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}

		found := map[string]bool{}
		for _, tool := range resp.Result.Tools {
			found[tool.Name] = true
		}
		for _, name := range []string{"create_session", "add_obstacle", "safe_directions", "find_path", "render_map"} {
			if !found[name] {
				t.Errorf("Tool %s not listed", name)
			}
		}
	})

	t.Run("api still mounted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/configs", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})
}
