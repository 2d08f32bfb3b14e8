package game

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/input"
	"go.uber.org/zap"
)

// Snapshot is the cached form of a live session. The board itself is not
// stored; replaying Columns rebuilds it.
type Snapshot struct {
	GameID        string            `json:"gameId"`
	Round         int               `json:"round"`
	Dimensions    domain.Dimensions `json:"dimensions"`
	Geometry      input.Geometry    `json:"geometry"`
	Player1Name   string            `json:"player1Name"`
	Player2Name   string            `json:"player2Name"`
	BotDifficulty string            `json:"botDifficulty,omitempty"`
	Columns       []int             `json:"columns"`
	CreatedAt     int64             `json:"createdAt"`
	FinishedAt    int64             `json:"finishedAt,omitempty"`
}

func snapshotKey(gameID string) string {
	return "session:" + gameID
}

func (gs *GameSession) snapshotLocked() *Snapshot {
	moves := gs.engine.Moves()
	cols := make([]int, len(moves))
	for i, m := range moves {
		cols[i] = m.Column
	}
	snap := &Snapshot{
		GameID:        gs.GameID,
		Round:         gs.Round,
		Dimensions:    gs.engine.Dimensions(),
		Geometry:      gs.mapper.Geometry(),
		Player1Name:   gs.Player1Name,
		Player2Name:   gs.Player2Name,
		BotDifficulty: gs.BotDifficulty,
		Columns:       cols,
		CreatedAt:     gs.CreatedAt.UnixMilli(),
	}
	if !gs.FinishedAt.IsZero() {
		snap.FinishedAt = gs.FinishedAt.UnixMilli()
	}
	return snap
}

func (sm *SessionManager) fromSnapshot(snap *Snapshot) (*GameSession, error) {
	gs, err := sm.newSession(snap.GameID, SessionOptions{
		Dimensions:    snap.Dimensions,
		Geometry:      snap.Geometry,
		Player1Name:   snap.Player1Name,
		Player2Name:   snap.Player2Name,
		BotDifficulty: snap.BotDifficulty,
	})
	if err != nil {
		return nil, err
	}
	engine, err := domain.Replay(snap.Dimensions, snap.Columns)
	if err != nil {
		return nil, err
	}
	gs.engine = engine
	gs.Round = snap.Round
	gs.CreatedAt = time.UnixMilli(snap.CreatedAt)
	if snap.FinishedAt != 0 {
		gs.FinishedAt = time.UnixMilli(snap.FinishedAt)
	}
	return gs, nil
}

// saveSnapshot is best effort: a cache outage only costs resumability.
func (sm *SessionManager) saveSnapshot(ctx context.Context, snap *Snapshot) {
	if sm.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		sm.logger.Error("encoding snapshot", zap.String("game_id", snap.GameID), zap.Error(err))
		return
	}
	if err := sm.cache.Set(ctx, snapshotKey(snap.GameID), data, sm.opts.SnapshotTTL); err != nil {
		sm.logger.Warn("caching snapshot", zap.String("game_id", snap.GameID), zap.Error(err))
	}
}

func (sm *SessionManager) deleteSnapshot(ctx context.Context, gameID string) {
	if sm.cache == nil {
		return
	}
	if err := sm.cache.Del(ctx, snapshotKey(gameID)); err != nil {
		sm.logger.Warn("deleting snapshot", zap.String("game_id", gameID), zap.Error(err))
	}
}

func sortLiveGames(games []LiveGame) {
	sort.Slice(games, func(i, j int) bool {
		if !games[i].StartedAt.Equal(games[j].StartedAt) {
			return games[i].StartedAt.After(games[j].StartedAt)
		}
		return games[i].GameID < games[j].GameID
	})
}
