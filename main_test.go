package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/config"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/game/session"
	"github.com/wricardo/mcp-training/propertygame/transport/mcp"
)

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	settings, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	return settings
}

// runApp executes the command line against a temporary preset directory
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{settings: testSettings(t), log: zap.NewNop(), out: &out}

	argv := append([]string{"propertygame", "--config-dir", t.TempDir()}, args...)
	err := a.command().Run(context.Background(), argv)
	return out.String(), err
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Property Game Simulator"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	gameService, sessionManager, err := initializeServices(testSettings(t), t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil || sessionManager == nil {
		t.Fatal("Expected game service and session manager to be initialized")
	}

	configs, err := gameService.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 1 || configs[0].ConfigID != config.DefaultConfigName {
		t.Errorf("Expected only the built-in preset, got %+v", configs)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, _, err := initializeServices(testSettings(t), "/non/existent/path", zap.NewNop())
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_BuiltinSize(t *testing.T) {
	settings := testSettings(t)
	settings.DefaultBoardSize = 8
	settings.DefaultPlayers = 2

	gameService, _, err := initializeServices(settings, t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	response, err := gameService.Simulate(context.Background(), service.GameRequest{Seed: 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if response.BoardSize != 8 || len(response.Standings) != 2 {
		t.Errorf("Expected 8 tiles and 2 players, got board %d with %d standings", response.BoardSize, len(response.Standings))
	}
}

func TestInitializeServices_DefaultPreset(t *testing.T) {
	dir := t.TempDir()
	duel := []byte(`{"name": "duel", "description": "Two players", "board_size": 9, "players": 2}`)
	if err := os.WriteFile(filepath.Join(dir, "duel.json"), duel, 0644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}

	settings := testSettings(t)
	settings.DefaultConfig = "duel"
	gameService, _, err := initializeServices(settings, dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	response, err := gameService.Simulate(context.Background(), service.GameRequest{Seed: 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if response.ConfigID != "duel" || response.BoardSize != 9 || len(response.Standings) != 2 {
		t.Errorf("Expected duel preset as default, got config %q board %d", response.ConfigID, response.BoardSize)
	}

	settings.DefaultConfig = "missing"
	if _, _, err := initializeServices(settings, dir, zap.NewNop()); err == nil {
		t.Error("Expected error for unknown default preset")
	}
}

func TestSimulateCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, "simulate", "--seed", "11", "--players", "3", "--strategy", "impulsive,cautious", "--format", "json")
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}

		var response service.SimulateResponse
		if err := json.Unmarshal([]byte(out), &response); err != nil {
			t.Fatalf("Failed to parse output %q: %v", out, err)
		}
		if response.Seed != 11 || len(response.Result.Players) != 3 {
			t.Errorf("Unexpected response: %+v", response)
		}
		if response.Result.Players[2] != engine.StrategyImpulsive {
			t.Errorf("Expected round-robin strategies, got %v", response.Result.Players)
		}
	})

	t.Run("table", func(t *testing.T) {
		out, err := runApp(t, "simulate", "--seed", "11")
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		for _, want := range []string{"seed: 11", "PLACE", "STRATEGY", "winner:"} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected %q in output: %s", want, out)
			}
		}
	})

	t.Run("same seed same game", func(t *testing.T) {
		first, err := runApp(t, "simulate", "--seed", "99", "--format", "json")
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		second, err := runApp(t, "simulate", "--seed", "99", "--format", "json")
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}
		if first != second {
			t.Errorf("Expected identical output for the same seed")
		}
	})

	t.Run("invalid strategy", func(t *testing.T) {
		if _, err := runApp(t, "simulate", "--strategy", "greedy"); err == nil {
			t.Error("Expected error for unknown strategy")
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		if _, err := runApp(t, "simulate", "--config", "missing"); err == nil {
			t.Error("Expected error for unknown preset")
		}
	})
}

func TestBatchCommand(t *testing.T) {
	out, err := runApp(t, "batch", "--games", "25", "--workers", "2", "--seed", "5", "--format", "json")
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	var response service.BatchResponse
	if err := json.Unmarshal([]byte(out), &response); err != nil {
		t.Fatalf("Failed to parse output %q: %v", out, err)
	}
	if response.BatchReport == nil || response.Games != 25 {
		t.Fatalf("Unexpected report: %s", out)
	}

	wins := 0
	for _, s := range response.Strategies {
		wins += s.Wins
	}
	if wins != 25 {
		t.Errorf("Expected one winner per game, got %d wins", wins)
	}

	t.Run("table", func(t *testing.T) {
		out, err := runApp(t, "batch", "-n", "10", "--seed", "5")
		if err != nil {
			t.Fatalf("batch failed: %v", err)
		}
		if !strings.Contains(out, "WIN RATE") || !strings.Contains(out, "games: 10") {
			t.Errorf("Unexpected table: %s", out)
		}
	})

	t.Run("too many games", func(t *testing.T) {
		if _, err := runApp(t, "batch", "--games", "0"); err == nil {
			t.Error("Expected error for zero games")
		}
	})
}

func TestGameRequestFlagsSplitStrategies(t *testing.T) {
	out, err := runApp(t, "simulate", "--seed", "4", "-s", "cautious", "-s", "demanding, random", "--players", "3", "--format", "json")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var response service.SimulateResponse
	if err := json.Unmarshal([]byte(out), &response); err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	want := []string{"cautious", "demanding", "random"}
	for i, name := range want {
		if response.Result.Players[i] != name {
			t.Errorf("Player %d: expected %s, got %s", i, name, response.Result.Players[i])
		}
	}
}

func TestMainRouterMCPEndpoint(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router := newMainRouter(api, mcp.NewClient("http://127.0.0.1:0"))

	t.Run("api mounted at root", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
		if w.Code != http.StatusTeapot {
			t.Errorf("Expected API handler, got %d", w.Code)
		}
	})

	t.Run("get not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		router.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"jsonrpc":"2.0"`) {
			t.Errorf("Expected JSON-RPC response, got %s", w.Body.String())
		}
	})
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager(zap.NewNop(), 10)
	if _, err := manager.Create("", "classic", engine.DefaultGameConfig(), 1); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, 5*time.Millisecond, time.Nanosecond, zap.NewNop())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for manager.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if manager.Count() != 0 {
		t.Error("Expected expired session to be removed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Cleanup routine did not stop on cancel")
	}
}

func TestAPIAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	if !apiAvailable(healthy.URL) {
		t.Error("Expected healthy API to be detected")
	}

	healthy.Close()
	if apiAvailable(healthy.URL) {
		t.Error("Expected closed server to be unavailable")
	}
}
