package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/input"
	"github.com/iamasit07/dropfour/internal/service/bot"
	"github.com/iamasit07/dropfour/pkg/uid"
	"go.uber.org/zap"
)

// Notifier fans a message out to every connection watching a game.
// Publish must not block on slow connections; it runs under the session lock.
type Notifier interface {
	Publish(gameID string, message domain.ServerMessage)
	CloseGame(gameID string, reason string)
}

type GameRepository interface {
	SaveGame(ctx context.Context, record *domain.GameRecord) error
}

// CacheRepository is the key-value store live sessions are mirrored into.
// Get returns domain.ErrCacheMiss for an absent key.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type Options struct {
	Dimensions     domain.Dimensions
	SnapshotTTL    time.Duration
	PostGameWindow time.Duration
	IdleTimeout    time.Duration
}

// SessionOptions describe one new game.
type SessionOptions struct {
	Dimensions    domain.Dimensions
	Geometry      input.Geometry
	Player1Name   string
	Player2Name   string
	BotDifficulty string
}

// LiveGame is the public summary of a session for the watch list.
type LiveGame struct {
	GameID    string    `json:"gameId"`
	Player1   string    `json:"player1"`
	Player2   string    `json:"player2"`
	MoveCount int       `json:"moveCount"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession
	mu       sync.RWMutex
	repo     GameRepository
	cache    CacheRepository
	notifier Notifier
	logger   *zap.Logger
	opts     Options
	now      func() time.Time
	saves    sync.WaitGroup
}

func NewSessionManager(repo GameRepository, cache CacheRepository, notifier Notifier, logger *zap.Logger, opts Options) *SessionManager {
	if opts.Dimensions == (domain.Dimensions{}) {
		opts.Dimensions = domain.DefaultDimensions()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger.Named("session"),
		opts:     opts,
		now:      time.Now,
	}
}

func (sm *SessionManager) DefaultDimensions() domain.Dimensions {
	return sm.opts.Dimensions
}

func (sm *SessionManager) CreateSession(ctx context.Context, opts SessionOptions) (*GameSession, error) {
	gs, err := sm.newSession(uid.GenerateGameID(), opts)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	sm.sessions[gs.GameID] = gs
	sm.mu.Unlock()

	gs.mu.Lock()
	sm.saveSnapshot(ctx, gs.snapshotLocked())
	gs.mu.Unlock()

	sm.logger.Info("created session",
		zap.String("game_id", gs.GameID),
		zap.Int("columns", opts.Dimensions.Columns),
		zap.Int("rows", opts.Dimensions.Rows),
		zap.String("bot", gs.BotDifficulty),
	)
	return gs, nil
}

func (sm *SessionManager) newSession(gameID string, opts SessionOptions) (*GameSession, error) {
	if opts.Dimensions == (domain.Dimensions{}) {
		opts.Dimensions = sm.opts.Dimensions
	}
	if opts.BotDifficulty != "" && !bot.IsValidDifficulty(opts.BotDifficulty) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, opts.BotDifficulty)
	}

	geo := opts.Geometry
	if geo.Columns == 0 && geo.Rows == 0 {
		geo.Columns, geo.Rows = opts.Dimensions.Columns, opts.Dimensions.Rows
	}
	if geo.Columns != opts.Dimensions.Columns || geo.Rows != opts.Dimensions.Rows {
		return nil, fmt.Errorf("%w: geometry %dx%d, board %dx%d", ErrGeometryMismatch,
			geo.Columns, geo.Rows, opts.Dimensions.Columns, opts.Dimensions.Rows)
	}

	engine, err := domain.NewEngine(opts.Dimensions)
	if err != nil {
		return nil, err
	}
	mapper, err := input.NewMapper(geo)
	if err != nil {
		return nil, err
	}

	p1, p2 := opts.Player1Name, opts.Player2Name
	if p1 == "" {
		p1 = domain.Player1.Name()
	}
	if p2 == "" {
		p2 = domain.Player2.Name()
		if opts.BotDifficulty != "" {
			p2 = domain.GetBotName(opts.BotDifficulty)
		}
	}

	now := sm.now()
	return &GameSession{
		GameID:        gameID,
		Player1Name:   p1,
		Player2Name:   p2,
		BotDifficulty: opts.BotDifficulty,
		CreatedAt:     now,
		LastActivity:  now,
		engine:        engine,
		gate:          input.NewGate(mapper),
		mapper:        mapper,
		rng:           rand.New(rand.NewSource(now.UnixNano())),
		manager:       sm,
		logger:        sm.logger,
	}, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

// Restore returns the live session or rebuilds it from the cache after a
// restart. The gate of a restored session starts idle; a bot move that was
// pending when the snapshot was taken is played straight away.
func (sm *SessionManager) Restore(ctx context.Context, gameID string) (*GameSession, error) {
	if gs, ok := sm.GetSession(gameID); ok {
		return gs, nil
	}
	if sm.cache == nil {
		return nil, ErrSessionNotFound
	}

	raw, err := sm.cache.Get(ctx, snapshotKey(gameID))
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", gameID, err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", gameID, err)
	}
	gs, err := sm.fromSnapshot(&snap)
	if err != nil {
		return nil, fmt.Errorf("replay snapshot %s: %w", gameID, err)
	}

	sm.mu.Lock()
	// another connection may have restored it first
	if existing, ok := sm.sessions[gameID]; ok {
		sm.mu.Unlock()
		return existing, nil
	}
	sm.sessions[gameID] = gs
	sm.mu.Unlock()

	sm.logger.Info("restored session", zap.String("game_id", gameID), zap.Int("moves", len(snap.Columns)))
	if err := gs.resume(ctx); err != nil {
		sm.logger.Warn("resuming bot move", zap.String("game_id", gameID), zap.Error(err))
	}
	return gs, nil
}

func (sm *SessionManager) RemoveSession(ctx context.Context, gameID string) error {
	sm.mu.Lock()
	_, exists := sm.sessions[gameID]
	delete(sm.sessions, gameID)
	sm.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	sm.logger.Info("removing session", zap.String("game_id", gameID))
	sm.deleteSnapshot(ctx, gameID)
	sm.notifier.CloseGame(gameID, "game closed")
	return nil
}

// ActiveGames lists sessions, newest first.
func (sm *SessionManager) ActiveGames() []LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := make([]LiveGame, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		games = append(games, LiveGame{
			GameID:    s.GameID,
			Player1:   s.Player1Name,
			Player2:   s.Player2Name,
			MoveCount: s.engine.MoveCount(),
			Status:    string(s.engine.Result().Status()),
			StartedAt: s.CreatedAt,
		})
		s.mu.Unlock()
	}
	sortLiveGames(games)
	return games
}

// CleanupOldSessions drops finished sessions past the post-game window and
// unfinished ones idle longer than the idle timeout.
func (sm *SessionManager) CleanupOldSessions(ctx context.Context) int {
	now := sm.now()
	var stale []string

	sm.mu.RLock()
	for gameID, s := range sm.sessions {
		s.mu.Lock()
		finished := s.engine.IsFinished()
		expired := (finished && now.Sub(s.FinishedAt) > sm.opts.PostGameWindow) ||
			(!finished && now.Sub(s.LastActivity) > sm.opts.IdleTimeout)
		s.mu.Unlock()
		if expired {
			stale = append(stale, gameID)
		}
	}
	sm.mu.RUnlock()

	for _, gameID := range stale {
		_ = sm.RemoveSession(ctx, gameID)
	}
	if len(stale) > 0 {
		sm.logger.Info("memory cleanup", zap.Int("removed", len(stale)))
	}
	return len(stale)
}

// Wait blocks until pending archive writes are done.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

// Saves game data to the archive in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(record *domain.GameRecord) {
	if sm.repo == nil {
		return
	}
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, record); err != nil {
			sm.logger.Error("saving game", zap.String("game_id", record.GameID), zap.Error(err))
			return
		}
		sm.logger.Info("game saved", zap.String("game_id", record.GameID), zap.Int("round", record.Round))
	}()
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, domain.ServerMessage) {}

func (nopNotifier) CloseGame(string, string) {}
