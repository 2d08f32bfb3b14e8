package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ArchiveReader is the read side of the finished-game archive.
type ArchiveReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameRounds(ctx context.Context, gameID string) ([]domain.GameRecord, error)
}

// Service is the entry point for archived games (facade)
type Service struct {
	Repo ArchiveReader
}

func NewService(repo ArchiveReader) *Service {
	return &Service{
		Repo: repo,
	}
}

// History returns the most recently finished games. The limit is clamped
// to [1, MaxHistoryLimit].
func (s *Service) History(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	records, err := s.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// GameDetails returns every archived round of one game, oldest first.
// Each round is replayed to make sure the stored moves and board agree.
func (s *Service) GameDetails(ctx context.Context, gameID string) ([]domain.GameRecord, error) {
	rounds, err := s.Repo.GetGameRounds(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	if len(rounds) == 0 {
		return nil, ErrSessionNotFound
	}
	for i := range rounds {
		if err := verifyRecord(&rounds[i]); err != nil {
			return nil, fmt.Errorf("game %s round %d: %w", gameID, rounds[i].Round, err)
		}
	}
	return rounds, nil
}

func verifyRecord(r *domain.GameRecord) error {
	engine, err := domain.Replay(r.Dimensions, r.Columns())
	if err != nil {
		return err
	}
	stored, err := domain.BoardFromSnapshot(r.Board)
	if err != nil {
		return err
	}
	if !engine.Board().Equal(stored) {
		return ErrCorruptRecord
	}
	return nil
}
