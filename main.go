// Command propertygame runs the property game simulator.
//
// It supports four commands:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "simulate" – plays one game and prints the result
//  4. "batch" – plays many games and prints win rates per strategy
//
// Settings come from the environment (and an optional .env file); flags
// override them. Ngrok tunneling exposes the server during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/propertygame/api"
	"github.com/wricardo/mcp-training/propertygame/game/config"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/game/session"
	"github.com/wricardo/mcp-training/propertygame/logging"
	"github.com/wricardo/mcp-training/propertygame/transport/mcp"
	"github.com/wricardo/mcp-training/propertygame/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Property Game Simulator"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{settings: settings, envErr: envErr}
	if err := a.command().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// app carries the settings and the lazily built logger shared by all commands
type app struct {
	settings config.Settings
	envErr   error
	log      *zap.Logger
	out      io.Writer
}

// command builds the command tree. Flag defaults come from the environment settings.
func (a *app) command() *cli.Command {
	gameFlags := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "preset name"},
		&cli.IntFlag{Name: "board-size", Usage: "number of properties (0 keeps the preset)"},
		&cli.IntFlag{Name: "players", Usage: "number of players (0 keeps the preset)"},
		&cli.StringSliceFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "strategy assigned round-robin, repeatable"},
		&cli.Int64Flag{Name: "seed", Usage: "random seed (0 picks one)"},
		&cli.StringFlag{Name: "format", Value: "table", Usage: "output format: table or json"},
	}

	return &cli.Command{
		Name:    "propertygame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: a.settings.Host, Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: a.settings.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "config-dir", Value: a.settings.ConfigDir, Usage: "directory containing game presets"},
			&cli.BoolFlag{Name: "debug", Value: a.settings.Debug, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Value: a.settings.NgrokEnabled, Usage: "enable ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Value: a.settings.NgrokAuthToken, Usage: "ngrok auth token"},
			&cli.StringFlag{Name: "ngrok-domain", Value: a.settings.NgrokDomain, Usage: "custom ngrok domain"},
		},
		Action: a.runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with API, WebSocket and MCP endpoint",
				Action:  a.runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run the MCP stdio server, starting an internal HTTP API if none is running",
				Action:  a.runStdioMCP,
			},
			{
				Name:   "simulate",
				Usage:  "play one game and print the result",
				Flags:  gameFlags,
				Action: a.runSimulate,
			},
			{
				Name:  "batch",
				Usage: "play many games and print win rates per strategy",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 1000, Usage: "number of games"},
					&cli.IntFlag{Name: "workers", Value: a.settings.BatchWorkers, Usage: "concurrent workers (0 uses all CPUs)"},
				}, gameFlags...),
				Action: a.runBatch,
			},
		},
	}
}

// logger builds the process logger on first use
func (a *app) logger(cmd *cli.Command) (*zap.Logger, error) {
	if a.log != nil {
		return a.log, nil
	}

	log, err := logging.New(cmd.Bool("debug"), a.settings.LogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	a.log = log

	if a.envErr == nil {
		log.Debug("loaded environment variables from .env file")
	} else if !os.IsNotExist(a.envErr) {
		log.Warn("error loading .env file", zap.Error(a.envErr))
	}
	return log, nil
}

func (a *app) stdout() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

// initializeServices wires the session and config managers into the game service
func initializeServices(settings config.Settings, configDir string, log *zap.Logger) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir,
		config.WithBuiltinSize(settings.DefaultBoardSize, settings.DefaultPlayers))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if settings.DefaultConfig != "" {
		if err := configManager.SetDefault(settings.DefaultConfig); err != nil {
			return nil, nil, fmt.Errorf("failed to set default preset %q: %w", settings.DefaultConfig, err)
		}
	}

	sessionManager := session.NewManager(log, settings.MaxSessions)

	limits := service.Limits{
		MaxBatchGames:   settings.MaxBatchGames,
		BatchWorkers:    settings.BatchWorkers,
		MaxStepsPerCall: settings.MaxStepsPerCall,
	}
	gameService := service.NewGameService(sessionManager, configManager, log, limits)

	log.Debug("services initialized",
		zap.String("config_dir", configDir),
		zap.String("default_preset", configManager.DefaultName()),
		zap.Int("presets", configManager.Count()),
		zap.Int("max_sessions", settings.MaxSessions),
	)

	return gameService, sessionManager, nil
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func (a *app) runServer(ctx context.Context, cmd *cli.Command) error {
	log, err := a.logger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))

	gameService, sessionManager, err := initializeServices(a.settings, cmd.String("config-dir"), log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, sessionManager, a.settings.CleanupInterval, a.settings.SessionTTL, log)
	}()

	hub := websocket.NewHub(log.Named("websocket"))
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub, log.Named("api"))

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := newMainRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter, log)
		}()
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	log.Info("server stopped")

	select {
	case err := <-serverErr:
		return err
	default:
		return nil
	}
}

// newMainRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler, log *zap.Logger) {
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info("using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	// http.Serve returns once the tunnel is closed
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	log.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Error("ngrok server error", zap.Error(err))
	}
	log.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// host:port; otherwise it starts an internal HTTP API on a random loopback port.
func (a *app) runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	log, err := a.logger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), cmd.Int("port"))
	log.Info("checking for external API server", zap.String("url", externalURL))

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		gameService, sessionManager, err := initializeServices(a.settings, cmd.String("config-dir"), log)
		if err != nil {
			return err
		}
		go sessionCleanupRoutine(ctx, sessionManager, a.settings.CleanupInterval, a.settings.SessionTTL, log)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(log.Named("websocket"))
		go hub.Run(ctx)

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, hub, log.Named("api")),
		}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Info("started internal HTTP server for MCP stdio", zap.String("url", baseURL))
	} else {
		log.Info("external API server found, using it for MCP", zap.String("url", externalURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a simulator API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// gameRequestFromFlags maps the shared game flags onto a service request
func gameRequestFromFlags(cmd *cli.Command) service.GameRequest {
	var strategies []string
	for _, s := range cmd.StringSlice("strategy") {
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				strategies = append(strategies, name)
			}
		}
	}

	return service.GameRequest{
		ConfigName: cmd.String("config"),
		BoardSize:  cmd.Int("board-size"),
		Players:    cmd.Int("players"),
		Strategies: strategies,
		Seed:       cmd.Int64("seed"),
	}
}

func (a *app) runSimulate(ctx context.Context, cmd *cli.Command) error {
	log, err := a.logger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	gameService, _, err := initializeServices(a.settings, cmd.String("config-dir"), log)
	if err != nil {
		return err
	}

	response, err := gameService.Simulate(ctx, gameRequestFromFlags(cmd))
	if err != nil {
		return err
	}

	if cmd.String("format") == "json" {
		return writeJSON(a.stdout(), response)
	}
	return writeSimulationTable(a.stdout(), response)
}

func (a *app) runBatch(ctx context.Context, cmd *cli.Command) error {
	log, err := a.logger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	gameService, _, err := initializeServices(a.settings, cmd.String("config-dir"), log)
	if err != nil {
		return err
	}

	response, err := gameService.RunBatch(ctx, service.BatchRequest{
		GameRequest: gameRequestFromFlags(cmd),
		Games:       cmd.Int("games"),
		Workers:     cmd.Int("workers"),
	})
	if err != nil {
		return err
	}

	if cmd.String("format") == "json" {
		return writeJSON(a.stdout(), response)
	}
	return writeBatchTable(a.stdout(), response)
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeSimulationTable(w io.Writer, response *service.SimulateResponse) error {
	finish := "elimination"
	if response.Result.TerminatedByTimeout {
		finish = "round limit"
	}
	fmt.Fprintf(w, "config: %s  seed: %d  board: %d  rounds: %d  finished by: %s\n\n",
		response.ConfigID, response.Seed, response.BoardSize, response.Result.Rounds, finish)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLACE\tPLAYER\tSTRATEGY\tBALANCE\tPROPERTIES")
	for _, s := range response.Standings {
		fmt.Fprintf(tw, "%d\t#%d\t%s\t%d\t%d\n", s.Place, s.PlayerID, s.Strategy, s.Balance, s.Holdings)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nwinner: %s\n", response.Result.Winner)
	return err
}

func writeBatchTable(w io.Writer, response *service.BatchResponse) error {
	report := response.BatchReport
	fmt.Fprintf(w, "config: %s  games: %d  seed: %d  duration: %dms\n\n",
		response.ConfigID, report.Games, report.Seed, report.DurationMs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSEATS\tWINS\tWIN RATE")
	for _, s := range report.Strategies {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", s.Strategy, s.Seats, s.Wins, s.WinRate*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nrounds: avg %.1f  min %d  max %d  timeouts: %d\n",
		report.AverageRounds, report.MinRounds, report.MaxRounds, report.Timeouts)
	return err
}
