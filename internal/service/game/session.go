package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/input"
	"github.com/iamasit07/dropfour/internal/service/bot"
	"go.uber.org/zap"
)

// GameSession is one live game: the rules engine plus the presentation-side
// gesture gate and column mapper. The mutex makes the session the single
// writer the engine expects.
type GameSession struct {
	GameID        string
	Round         int
	Player1Name   string
	Player2Name   string
	BotDifficulty string
	CreatedAt     time.Time
	FinishedAt    time.Time
	LastActivity  time.Time

	engine  *domain.Engine
	gate    *input.Gate
	mapper  *input.Mapper
	rng     *rand.Rand
	mu      sync.Mutex
	manager *SessionManager
	logger  *zap.Logger
}

func (gs *GameSession) IsBot() bool {
	return gs.BotDifficulty != ""
}

func (gs *GameSession) botTurn() bool {
	return gs.IsBot() && gs.engine.CurrentPlayer() == domain.Player2
}

func (gs *GameSession) Geometry() input.Geometry {
	return gs.mapper.Geometry()
}

// GestureBegin starts a press-and-hold at x and reports the hovered column.
func (gs *GameSession) GestureBegin(ctx context.Context, x float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.canPlay(); err != nil {
		return err
	}
	col, err := gs.gate.Begin(x)
	if err != nil {
		return err
	}
	gs.touch()
	gs.publishHover(col)
	return nil
}

func (gs *GameSession) GestureMove(ctx context.Context, x float64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	col, err := gs.gate.Move(x)
	if err != nil {
		return err
	}
	gs.touch()
	gs.publishHover(col)
	return nil
}

func (gs *GameSession) GestureCancel(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if err := gs.gate.Cancel(); err != nil {
		return err
	}
	gs.publish(domain.ServerMessage{Type: domain.ServerChipCleared})
	return nil
}

// GestureEnd releases the chip and commits the drop. A drop the engine
// rejects reopens the gate straight away so the client can snap back.
func (gs *GameSession) GestureEnd(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	col, err := gs.gate.End()
	if errors.Is(err, input.ErrNoDrag) {
		gs.publish(domain.ServerMessage{Type: domain.ServerChipCleared})
		return nil
	}
	if err != nil {
		return err
	}

	if err := gs.canPlay(); err != nil {
		gs.gate.Complete()
		return err
	}
	return gs.commit(ctx, col)
}

// AnimationDone unblocks the gate once the client finished animating the
// last drop. If the bot is next it moves now and blocks the gate again for
// its own animation.
func (gs *GameSession) AnimationDone(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.gate.State() != input.GateCommitting {
		return nil
	}
	gs.gate.Complete()
	gs.touch()

	if gs.engine.IsFinished() || !gs.botTurn() {
		return nil
	}
	return gs.botMove(ctx)
}

// resume plays a bot move that was still due when the session was
// snapshotted. Clients of a restored session render from its state, so the
// gate is not left waiting on an animation.
func (gs *GameSession) resume(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.engine.IsFinished() || !gs.botTurn() {
		return nil
	}
	if err := gs.botMove(ctx); err != nil {
		return err
	}
	gs.gate.Complete()
	return nil
}

func (gs *GameSession) botMove(ctx context.Context) error {
	col := bot.CalculateBestMove(gs.engine.Board(), domain.Player2, gs.BotDifficulty, gs.rng)
	if col < 0 {
		return nil
	}
	if err := gs.gate.Hold(col); err != nil {
		return err
	}
	gs.logger.Debug("bot move", zap.String("game_id", gs.GameID), zap.Int("column", col))
	return gs.commit(ctx, col)
}

// NewGame resets the board for another round with the same players.
func (gs *GameSession) NewGame(ctx context.Context) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.engine.Reset()
	gs.gate.Force()
	gs.Round++
	gs.CreatedAt = gs.manager.now()
	gs.FinishedAt = time.Time{}
	gs.touch()

	gs.logger.Info("new game", zap.String("game_id", gs.GameID))
	gs.manager.saveSnapshot(ctx, gs.snapshotLocked())
	view := gs.viewLocked()
	gs.publish(domain.ServerMessage{Type: domain.ServerState, State: &view})
}

// State returns what a client needs to render the game.
func (gs *GameSession) State() domain.StateView {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.viewLocked()
}

func (gs *GameSession) IsFinished() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.engine.IsFinished()
}

func (gs *GameSession) Result() domain.GameResult {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.engine.Result()
}

func (gs *GameSession) canPlay() error {
	if gs.engine.IsFinished() {
		return domain.ErrGameOver
	}
	if gs.botTurn() {
		return ErrBotTurn
	}
	return nil
}

// commit runs with the gate already in Committing.
func (gs *GameSession) commit(ctx context.Context, col int) error {
	player := gs.engine.CurrentPlayer()

	fall, err := gs.mapper.FallDistance(col, gs.engine)
	if err == nil {
		var row int
		row, err = gs.engine.CommitDrop(col)
		if err == nil {
			gs.afterDrop(ctx, col, row, player, fall)
			return nil
		}
	}

	gs.gate.Complete()
	gs.publish(domain.ServerMessage{
		Type:    domain.ServerMoveRejected,
		Column:  domain.IntPtr(col),
		Message: err.Error(),
	})
	return fmt.Errorf("drop into column %d: %w", col, err)
}

func (gs *GameSession) afterDrop(ctx context.Context, col, row int, player domain.PlayerID, fall float64) {
	gs.touch()
	board := gs.engine.Board().Snapshot()

	gs.publish(domain.ServerMessage{
		Type:         domain.ServerMoveMade,
		Column:       domain.IntPtr(col),
		Row:          domain.IntPtr(row),
		Player:       int(player),
		CenterX:      gs.mapper.ColumnCenter(col),
		FallDistance: fall,
		NextTurn:     int(gs.engine.CurrentPlayer()),
		Board:        board,
	})
	gs.manager.saveSnapshot(ctx, gs.snapshotLocked())

	result := gs.engine.Result()
	if !result.IsResolved() {
		return
	}

	gs.FinishedAt = gs.manager.now()
	msg := domain.ServerMessage{
		Type:   domain.ServerGameOver,
		Result: &result,
		Board:  board,
	}
	if result.Kind == domain.ResultWin {
		msg.WinnerName = gs.playerName(result.Winner)
		msg.WinnerColor = result.Winner.Color()
	}
	gs.publish(msg)

	gs.logger.Info("game over",
		zap.String("game_id", gs.GameID),
		zap.String("result", string(result.Kind)),
		zap.Stringer("winner", result.Winner),
		zap.Int("moves", gs.engine.MoveCount()),
	)
	gs.manager.saveGameAsync(gs.recordLocked())
}

func (gs *GameSession) playerName(p domain.PlayerID) string {
	if p == domain.Player1 {
		return gs.Player1Name
	}
	return gs.Player2Name
}

func (gs *GameSession) publishHover(col int) {
	gs.publish(domain.ServerMessage{
		Type:    domain.ServerChipHover,
		Column:  domain.IntPtr(col),
		CenterX: gs.mapper.ColumnCenter(col),
		Player:  int(gs.engine.CurrentPlayer()),
	})
}

func (gs *GameSession) publish(msg domain.ServerMessage) {
	msg.GameID = gs.GameID
	gs.manager.notifier.Publish(gs.GameID, msg)
}

func (gs *GameSession) touch() {
	gs.LastActivity = gs.manager.now()
}

func (gs *GameSession) viewLocked() domain.StateView {
	result := gs.engine.Result()
	dims := gs.engine.Dimensions()
	return domain.StateView{
		GameID:        gs.GameID,
		Round:         gs.Round,
		Columns:       dims.Columns,
		Rows:          dims.Rows,
		Board:         gs.engine.Board().Snapshot(),
		CurrentTurn:   int(gs.engine.CurrentPlayer()),
		Status:        result.Status(),
		Result:        result,
		Moves:         gs.engine.Moves(),
		Gate:          string(gs.gate.State()),
		Player1Name:   gs.Player1Name,
		Player2Name:   gs.Player2Name,
		BotDifficulty: gs.BotDifficulty,
	}
}

func (gs *GameSession) recordLocked() *domain.GameRecord {
	finished := gs.FinishedAt
	if finished.IsZero() {
		finished = gs.manager.now()
	}
	moves := gs.engine.Moves()
	return &domain.GameRecord{
		GameID:          gs.GameID,
		Round:           gs.Round,
		Dimensions:      gs.engine.Dimensions(),
		Player1Name:     gs.Player1Name,
		Player2Name:     gs.Player2Name,
		BotDifficulty:   gs.BotDifficulty,
		Result:          gs.engine.Result(),
		Moves:           moves,
		Board:           gs.engine.Board().Snapshot(),
		TotalMoves:      len(moves),
		DurationSeconds: int(finished.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      finished,
	}
}
