package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/simulation"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	log      *zap.Logger
	limits   Limits
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, log *zap.Logger, limits Limits) GameService {
	if log == nil {
		log = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      log,
		limits:   limits,
	}
}

// resolveConfig loads the requested preset, or the default, and applies the
// request overrides to a private copy. A board size override drops fixed prices.
func (s *gameServiceImpl) resolveConfig(req GameRequest) (string, *engine.GameConfig, error) {
	var (
		base     *engine.GameConfig
		configID string
	)
	if name := strings.TrimSuffix(req.ConfigName, ".json"); name != "" {
		loaded, err := s.configs.LoadConfig(name)
		if err != nil {
			if ids := s.configIDs(); len(ids) > 0 {
				return "", nil, fmt.Errorf("failed to load config %q (available: %s): %w", name, strings.Join(ids, ", "), err)
			}
			return "", nil, fmt.Errorf("failed to load config %q: %w", name, err)
		}
		base, configID = loaded, name
	} else {
		base, configID = s.configs.GetDefault(), s.configs.DefaultName()
		if base == nil {
			base = engine.DefaultGameConfig()
			configID = base.Name
		}
	}

	cfg := *base
	cfg.Strategies = append([]string(nil), base.Strategies...)
	cfg.Prices = append([]int(nil), base.Prices...)

	if req.BoardSize != 0 {
		cfg.BoardSize = req.BoardSize
		cfg.Prices = nil
	}
	if req.Players != 0 {
		cfg.Players = req.Players
	}
	if len(req.Strategies) > 0 {
		cfg.Strategies = append([]string(nil), req.Strategies...)
	}

	if err := engine.ValidateGameConfig(&cfg); err != nil {
		return "", nil, err
	}
	return configID, &cfg, nil
}

func (s *gameServiceImpl) configIDs() []string {
	infos, err := s.configs.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ConfigID)
	}
	return ids
}

// Simulate plays one game to the end without keeping a session
func (s *gameServiceImpl) Simulate(ctx context.Context, req GameRequest) (*SimulateResponse, error) {
	configID, cfg, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	outcome, err := simulation.Simulate(ctx, simulation.OptionsFromConfig(cfg, req.Seed), s.log)
	if err != nil {
		return nil, err
	}

	s.log.Info("simulation finished",
		zap.String("config", configID),
		zap.Int64("seed", outcome.Seed),
		zap.String("winner", outcome.Result.Winner),
		zap.Int("rounds", outcome.Result.Rounds),
		zap.Bool("timeout", outcome.Result.TerminatedByTimeout),
	)
	return &SimulateResponse{ConfigID: configID, Outcome: *outcome}, nil
}

// RunBatch plays a tournament of independent games
func (s *gameServiceImpl) RunBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if req.Games < 1 {
		return nil, fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalidRequest, req.Games)
	}
	if s.limits.MaxBatchGames > 0 && req.Games > s.limits.MaxBatchGames {
		return nil, fmt.Errorf("%w: games must be at most %d, got %d", ErrInvalidRequest, s.limits.MaxBatchGames, req.Games)
	}

	configID, cfg, err := s.resolveConfig(req.GameRequest)
	if err != nil {
		return nil, err
	}

	workers := req.Workers
	if workers <= 0 || (s.limits.BatchWorkers > 0 && workers > s.limits.BatchWorkers) {
		workers = s.limits.BatchWorkers
	}

	report, err := simulation.RunBatch(ctx, simulation.BatchOptions{
		Options: simulation.OptionsFromConfig(cfg, req.Seed),
		Games:   req.Games,
		Workers: workers,
	}, s.log)
	if err != nil {
		return nil, err
	}
	return &BatchResponse{ConfigID: configID, BatchReport: report}, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req GameRequest) (*SessionInfo, error) {
	configID, cfg, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Create("", configID, cfg, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("session created",
		zap.String("session", session.ID),
		zap.String("config", configID),
		zap.Int64("seed", session.Driver.Seed()),
	)
	return newSessionInfo(session), nil
}

func newSessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigID:       session.ConfigID,
		Seed:           session.Driver.Seed(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameConfig:     session.Config,
		Snapshot:       session.Driver.Game().Snapshot(),
	}
}

// getSession fetches a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionInfo(session), nil
}

// ListSessions returns all live sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, newSessionInfo(session))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	s.log.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Step applies up to n turns, capped by the per-call limit
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, n int) (*StepResponse, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be at least 1, got %d", ErrInvalidRequest, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	resp := &StepResponse{SessionID: session.ID, Requested: n}
	if limit := s.limits.MaxStepsPerCall; limit > 0 && n > limit {
		resp.Truncated = true
		resp.Limit = limit
		n = limit
	}

	resp.Steps = session.Driver.StepN(n)
	resp.Applied = len(resp.Steps)
	s.finishResponse(session, resp)

	s.log.Debug("session stepped",
		zap.String("session", session.ID),
		zap.Int("requested", resp.Requested),
		zap.Int("applied", resp.Applied),
		zap.Bool("finished", resp.Finished),
	)
	return resp, nil
}

// RunToEnd plays the session's game until it finishes. Individual turns are
// not returned; they remain available through the history.
func (s *gameServiceImpl) RunToEnd(ctx context.Context, sessionID string) (*StepResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	before := session.Driver.Game().Round()
	if _, err := session.Driver.Run(ctx); err != nil {
		return nil, err
	}

	resp := &StepResponse{
		SessionID: session.ID,
		Applied:   session.Driver.Game().Round() - before,
		Steps:     []simulation.StepResult{},
	}
	resp.Requested = resp.Applied
	s.finishResponse(session, resp)

	s.log.Info("session run to end",
		zap.String("session", session.ID),
		zap.Int("applied", resp.Applied),
		zap.String("winner", resp.Snapshot.Winner),
	)
	return resp, nil
}

func (s *gameServiceImpl) finishResponse(session *Session, resp *StepResponse) {
	game := session.Driver.Game()
	resp.Snapshot = game.Snapshot()
	resp.Finished = game.IsFinished()
	if resp.Finished {
		result := game.Result()
		resp.Result = &result
	}
}

// GetGameState retrieves the current game snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	snapshot := session.Driver.Game().Snapshot()
	return &snapshot, nil
}

// GetHistory returns a page of the session's game events
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := session.Driver.Game().Events()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []engine.Event{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, history[i])
		}
	} else if start < total {
		events = append(events, history[start:end]...)
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetResult reports the session's outcome. Before the game finishes the
// winner is the current leader.
func (s *gameServiceImpl) GetResult(ctx context.Context, sessionID string) (*ResultResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	game := session.Driver.Game()
	return &ResultResponse{
		SessionID: session.ID,
		Finished:  game.IsFinished(),
		Result:    game.Result(),
		Standings: game.Standings(),
	}, nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.log.Info("config saved", zap.String("config", configName))
	return nil
}

// ReloadConfigs rereads one preset from disk, or every preset when configName is empty
func (s *gameServiceImpl) ReloadConfigs(ctx context.Context, configName string) error {
	if configName == "" {
		s.configs.RefreshCache()
		s.log.Info("config cache refreshed", zap.String("default", s.configs.DefaultName()))
		return nil
	}

	if err := s.configs.ReloadConfig(configName); err != nil {
		return err
	}
	s.log.Info("config reloaded", zap.String("config", configName))
	return nil
}
