package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []domain.ServerMessage
	closed   []string
}

func (n *recordingNotifier) CloseGame(gameID string, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, gameID)
}

func (n *recordingNotifier) Publish(gameID string, msg domain.ServerMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) last() domain.ServerMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return domain.ServerMessage{}
	}
	return n.messages[len(n.messages)-1]
}

func (n *recordingNotifier) ofType(typ string) []domain.ServerMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.ServerMessage
	for _, m := range n.messages {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

type memoryRepo struct {
	mu      sync.Mutex
	records []*domain.GameRecord
}

func (r *memoryRepo) SaveGame(ctx context.Context, rec *domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

var testGeometry = input.Geometry{SlotWidth: 50, SlotHeight: 60, BoardOriginY: 100}

type fixture struct {
	sm       *SessionManager
	notifier *recordingNotifier
	repo     *memoryRepo
	cache    *memoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{notifier: &recordingNotifier{}, repo: &memoryRepo{}, cache: newMemoryCache()}
	f.sm = NewSessionManager(f.repo, f.cache, f.notifier, nil, Options{
		SnapshotTTL:    time.Hour,
		PostGameWindow: 5 * time.Minute,
		IdleTimeout:    time.Hour,
	})
	return f
}

func (f *fixture) create(t *testing.T, bot string) *GameSession {
	t.Helper()
	gs, err := f.sm.CreateSession(context.Background(), SessionOptions{Geometry: testGeometry, BotDifficulty: bot})
	require.NoError(t, err)
	return gs
}

func columnX(col int) float64 {
	return float64(col)*50 + 25
}

// drag performs a full press, drag and release over col.
func drag(gs *GameSession, col int) error {
	ctx := context.Background()
	if err := gs.GestureBegin(ctx, columnX(col)); err != nil {
		return err
	}
	if err := gs.GestureMove(ctx, columnX(col)); err != nil {
		return err
	}
	return gs.GestureEnd(ctx)
}

func play(t *testing.T, gs *GameSession, cols ...int) {
	t.Helper()
	for _, col := range cols {
		require.NoError(t, drag(gs, col))
		require.NoError(t, gs.AnimationDone(context.Background()))
	}
}

func TestGestureDropFlow(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	ctx := context.Background()

	require.NoError(t, gs.GestureBegin(ctx, 10))
	hover := f.notifier.last()
	assert.Equal(t, domain.ServerChipHover, hover.Type)
	assert.Equal(t, 0, *hover.Column)
	assert.Equal(t, 25.0, hover.CenterX)

	require.NoError(t, gs.GestureMove(ctx, 130))
	assert.Equal(t, 2, *f.notifier.last().Column)

	require.NoError(t, gs.GestureEnd(ctx))
	made := f.notifier.last()
	assert.Equal(t, domain.ServerMoveMade, made.Type)
	assert.Equal(t, 2, *made.Column)
	assert.Equal(t, 0, *made.Row)
	assert.Equal(t, int(domain.Player1), made.Player)
	assert.Equal(t, 300.0, made.FallDistance)
	assert.Equal(t, int(domain.Player2), made.NextTurn)
	assert.Equal(t, gs.GameID, made.GameID)

	assert.Equal(t, string(input.GateCommitting), gs.State().Gate)
	assert.ErrorIs(t, gs.GestureBegin(ctx, 10), input.ErrGestureBlocked)

	require.NoError(t, gs.AnimationDone(ctx))
	state := gs.State()
	assert.Equal(t, string(input.GateIdle), state.Gate)
	assert.Equal(t, int(domain.Player2), state.CurrentTurn)
	assert.Equal(t, 1, state.Board[0][2])
}

func TestTapWithoutDragClearsChip(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	ctx := context.Background()

	require.NoError(t, gs.GestureBegin(ctx, 60))
	require.NoError(t, gs.GestureEnd(ctx))

	assert.Equal(t, domain.ServerChipCleared, f.notifier.last().Type)
	assert.Empty(t, gs.State().Moves)
	assert.Equal(t, string(input.GateIdle), gs.State().Gate)
}

func TestCancelReturnsToIdle(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	ctx := context.Background()

	require.NoError(t, gs.GestureBegin(ctx, 60))
	require.NoError(t, gs.GestureCancel(ctx))
	assert.Equal(t, domain.ServerChipCleared, f.notifier.last().Type)
	assert.ErrorIs(t, gs.GestureMove(ctx, 60), input.ErrNotDragging)
}

func TestFullColumnIsRejected(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	play(t, gs, 0, 0, 0, 0, 0, 0)

	err := drag(gs, 0)
	assert.ErrorIs(t, err, domain.ErrColumnFull)

	rejected := f.notifier.last()
	assert.Equal(t, domain.ServerMoveRejected, rejected.Type)
	assert.Equal(t, 0, *rejected.Column)

	state := gs.State()
	assert.Equal(t, string(input.GateIdle), state.Gate)
	assert.Len(t, state.Moves, 6)
	assert.Equal(t, int(domain.Player1), state.CurrentTurn)
}

func TestWinArchivesGame(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	play(t, gs, 0, 1, 0, 1, 0, 1, 0)

	over := f.notifier.ofType(domain.ServerGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, "Red", over[0].WinnerName)
	assert.Equal(t, domain.Player1.Color(), over[0].WinnerColor)
	assert.Equal(t, []domain.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}, {Row: 3, Col: 0}},
		over[0].Result.Line)

	assert.True(t, gs.IsFinished())
	assert.ErrorIs(t, gs.GestureBegin(context.Background(), 25), domain.ErrGameOver)

	f.sm.Wait()
	require.Len(t, f.repo.records, 1)
	rec := f.repo.records[0]
	assert.Equal(t, gs.GameID, rec.GameID)
	assert.Equal(t, 7, rec.TotalMoves)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 0}, rec.Columns())
	assert.Equal(t, "Red", rec.WinnerName())
}

func TestBotMovesAfterAnimation(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "hard")
	ctx := context.Background()
	assert.Equal(t, domain.GetBotName("hard"), gs.Player2Name)

	require.NoError(t, drag(gs, 3))
	require.NoError(t, gs.AnimationDone(ctx))

	state := gs.State()
	require.Len(t, state.Moves, 2)
	assert.Equal(t, domain.Player2, state.Moves[1].Player)
	assert.Equal(t, string(input.GateCommitting), state.Gate)
	assert.Equal(t, int(domain.Player1), state.CurrentTurn)

	require.NoError(t, gs.AnimationDone(ctx))
	assert.Equal(t, string(input.GateIdle), gs.State().Gate)
	assert.Len(t, f.notifier.ofType(domain.ServerMoveMade), 2)
}

func TestNewGameStartsNextRound(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	play(t, gs, 0, 1, 0, 1, 0, 1, 0)
	require.True(t, gs.IsFinished())

	gs.NewGame(context.Background())

	msg := f.notifier.last()
	require.Equal(t, domain.ServerState, msg.Type)
	assert.Equal(t, 1, msg.State.Round)
	assert.Empty(t, msg.State.Moves)
	assert.Equal(t, domain.StatusActive, msg.State.Status)
	assert.False(t, gs.IsFinished())

	play(t, gs, 5)
	assert.Len(t, gs.State().Moves, 1)
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sm.CreateSession(ctx, SessionOptions{
		Dimensions: domain.Dimensions{Columns: 7, Rows: 6},
		Geometry:   input.Geometry{Columns: 6, Rows: 6, SlotWidth: 50, SlotHeight: 50},
	})
	assert.ErrorIs(t, err, ErrGeometryMismatch)

	_, err = f.sm.CreateSession(ctx, SessionOptions{Geometry: testGeometry, BotDifficulty: "impossible"})
	assert.ErrorIs(t, err, ErrUnknownBot)

	_, err = f.sm.CreateSession(ctx, SessionOptions{Geometry: input.Geometry{SlotWidth: 0, SlotHeight: 50}})
	assert.ErrorIs(t, err, input.ErrInvalidGeometry)

	gs, err := f.sm.CreateSession(ctx, SessionOptions{
		Dimensions: domain.Dimensions{Columns: 7, Rows: 6},
		Geometry:   testGeometry,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, gs.State().Columns)
	assert.Equal(t, 7, gs.Geometry().Columns)
}

func TestRestoreReplaysSnapshot(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	play(t, gs, 2, 3, 2)
	want := gs.State()

	other := NewSessionManager(f.repo, f.cache, &recordingNotifier{}, nil, Options{})
	restored, err := other.Restore(context.Background(), gs.GameID)
	require.NoError(t, err)

	got := restored.State()
	assert.Equal(t, want.Board, got.Board)
	assert.Equal(t, want.Moves, got.Moves)
	assert.Equal(t, want.CurrentTurn, got.CurrentTurn)
	assert.Equal(t, string(input.GateIdle), got.Gate)

	again, err := other.Restore(context.Background(), gs.GameID)
	require.NoError(t, err)
	assert.Same(t, restored, again)

	_, err = other.Restore(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRestorePlaysPendingBotMove(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "easy")
	// the human's drop is snapshotted before the animation ends
	require.NoError(t, drag(gs, 3))

	notifier := &recordingNotifier{}
	other := NewSessionManager(f.repo, f.cache, notifier, nil, Options{})
	restored, err := other.Restore(context.Background(), gs.GameID)
	require.NoError(t, err)

	state := restored.State()
	require.Len(t, state.Moves, 2)
	assert.Equal(t, domain.Player1, state.Moves[0].Player)
	assert.Equal(t, domain.Player2, state.Moves[1].Player)
	assert.Equal(t, int(domain.Player1), state.CurrentTurn)
	assert.Equal(t, string(input.GateIdle), state.Gate)
	assert.Len(t, notifier.ofType(domain.ServerMoveMade), 1)

	require.NoError(t, drag(restored, 0))
	require.NoError(t, restored.AnimationDone(context.Background()))
	assert.Len(t, restored.State().Moves, 4)
}

func TestRemoveSessionDropsSnapshot(t *testing.T) {
	f := newFixture(t)
	gs := f.create(t, "")
	ctx := context.Background()

	require.NoError(t, f.sm.RemoveSession(ctx, gs.GameID))
	_, ok := f.sm.GetSession(gs.GameID)
	assert.False(t, ok)
	_, err := f.cache.Get(ctx, snapshotKey(gs.GameID))
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, []string{gs.GameID}, f.notifier.closed)

	assert.ErrorIs(t, f.sm.RemoveSession(ctx, gs.GameID), ErrSessionNotFound)
}

func TestCleanupOldSessions(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.sm.now = func() time.Time { return now }

	idle := f.create(t, "")
	finished := f.create(t, "")
	play(t, finished, 0, 1, 0, 1, 0, 1, 0)
	fresh := f.create(t, "")

	now = now.Add(10 * time.Minute)
	play(t, fresh, 3)
	assert.Equal(t, 1, f.sm.CleanupOldSessions(context.Background()))
	_, ok := f.sm.GetSession(finished.GameID)
	assert.False(t, ok)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, f.sm.CleanupOldSessions(context.Background()))
	_, ok = f.sm.GetSession(idle.GameID)
	assert.False(t, ok)
	_, ok = f.sm.GetSession(fresh.GameID)
	assert.True(t, ok)
}

func TestActiveGamesNewestFirst(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.sm.now = func() time.Time { return now }

	older := f.create(t, "")
	now = now.Add(time.Minute)
	newer := f.create(t, "easy")
	play(t, older, 1)

	games := f.sm.ActiveGames()
	require.Len(t, games, 2)
	assert.Equal(t, newer.GameID, games[0].GameID)
	assert.Equal(t, older.GameID, games[1].GameID)
	assert.Equal(t, 1, games[1].MoveCount)
	assert.Equal(t, "active", games[1].Status)
}
