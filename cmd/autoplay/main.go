// Command autoplay drives a game session on a running server turn by turn
// through the HTTP API. The session ID is saved so an interrupted run can be
// resumed with the next invocation or with --continue.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logging"
)

// ErrNotFound is returned when the server does not know the session
var ErrNotFound = errors.New("session not found")

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, string(data))
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) CreateSession(ctx context.Context, req service.GameRequest) (*service.SessionInfo, error) {
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

func (c *Client) GetSession(ctx context.Context) (*service.SessionInfo, error) {
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+c.sessionID, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Step(ctx context.Context, n int) (*service.StepResponse, error) {
	var step service.StepResponse
	body := map[string]int{"n": n}
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+c.sessionID+"/step", body, &step); err != nil {
		return nil, err
	}
	return &step, nil
}

func (c *Client) Result(ctx context.Context) (*service.ResultResponse, error) {
	var result service.ResultResponse
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+c.sessionID+"/result", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type playOptions struct {
	Request     service.GameRequest
	Continue    string
	SessionFile string
	Chunk       int
	MaxCalls    int
	Delay       time.Duration
	Verbose     bool
}

// play resumes or creates a session and steps it until the game finishes
func play(ctx context.Context, client *Client, opts playOptions, w io.Writer, log *zap.Logger) (*service.ResultResponse, error) {
	if opts.Chunk < 1 {
		opts.Chunk = 1
	}

	savedID := opts.Continue
	if savedID == "" && opts.SessionFile != "" {
		if data, err := os.ReadFile(opts.SessionFile); err == nil {
			savedID = string(bytes.TrimSpace(data))
		}
	}

	var info *service.SessionInfo
	if savedID != "" {
		client.sessionID = savedID
		resumed, err := client.GetSession(ctx)
		if err != nil {
			log.Warn("failed to resume session, creating a new one", zap.String("session", savedID), zap.Error(err))
		} else {
			info = resumed
			fmt.Fprintf(w, "🔄 Resuming session %s at round %d\n", info.ID, info.Snapshot.Round)
		}
	}

	if info == nil {
		created, err := client.CreateSession(ctx, opts.Request)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		info = created
		fmt.Fprintf(w, "✨ Session %s created (preset %s, seed %d)\n", info.ID, info.ConfigID, info.Seed)

		if opts.SessionFile != "" {
			if err := os.WriteFile(opts.SessionFile, []byte(info.ID), 0644); err != nil {
				log.Warn("failed to save session id", zap.String("file", opts.SessionFile), zap.Error(err))
			}
		}
	}

	finished := info.Snapshot.Finished
	for calls := 0; !finished; calls++ {
		if opts.MaxCalls > 0 && calls >= opts.MaxCalls {
			return nil, fmt.Errorf("game not finished after %d step calls", calls)
		}

		step, err := client.Step(ctx, opts.Chunk)
		if err != nil {
			return nil, fmt.Errorf("step: %w", err)
		}

		if opts.Verbose {
			for _, s := range step.Steps {
				bought := ""
				if s.Purchased {
					bought = " bought"
				}
				fmt.Fprintf(w, "  r%d #%d %s rolled %d: %d→%d balance=%d%s\n",
					s.Round, s.PlayerID, s.Strategy, s.Dice, s.From, s.To, s.Balance, bought)
			}
		}
		log.Debug("stepped",
			zap.String("session", step.SessionID),
			zap.Int("applied", step.Applied),
			zap.Int("round", step.Snapshot.Round),
		)

		finished = step.Finished
		if !finished && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	result, err := client.Result(ctx)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}

	if opts.SessionFile != "" {
		os.Remove(opts.SessionFile)
	}

	printResult(w, result)
	return result, nil
}

func printResult(w io.Writer, result *service.ResultResponse) {
	if result.Result.TerminatedByTimeout {
		fmt.Fprintf(w, "\n⏱  Round limit reached after %d rounds\n", result.Result.Rounds)
	} else {
		fmt.Fprintf(w, "\n🏁 Finished in %d rounds\n", result.Result.Rounds)
	}
	fmt.Fprintf(w, "🎉 Winner: %s\n", result.Result.Winner)
	for _, s := range result.Standings {
		fmt.Fprintf(w, "  %d. #%d %-9s balance=%d holdings=%d\n", s.Place, s.PlayerID, s.Strategy, s.Balance, s.Holdings)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play a session on a running server through the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "preset to create the session from"},
			&cli.Int64Flag{Name: "seed", Usage: "seed for a new session (0 picks one)"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "file remembering the session between runs"},
			&cli.IntFlag{Name: "chunk", Value: 10, Usage: "turns per step call"},
			&cli.IntFlag{Name: "max-calls", Value: 1000, Usage: "give up after this many step calls"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between step calls"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print every turn"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logging.Must(cmd.Bool("verbose"), false)
			defer log.Sync()

			log.Info("connecting to game server", zap.String("url", cmd.String("url")))
			_, err := play(ctx, NewClient(cmd.String("url")), playOptions{
				Request: service.GameRequest{
					ConfigName: cmd.String("config"),
					Seed:       cmd.Int64("seed"),
				},
				Continue:    cmd.String("continue"),
				SessionFile: cmd.String("session-file"),
				Chunk:       cmd.Int("chunk"),
				MaxCalls:    cmd.Int("max-calls"),
				Delay:       cmd.Duration("delay"),
				Verbose:     cmd.Bool("verbose"),
			}, os.Stdout, log)
			return err
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
