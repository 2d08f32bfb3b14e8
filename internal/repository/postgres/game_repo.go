package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const gameColumns = `game_id, round, columns, rows, player1_name, player2_name, bot_difficulty,
	       result, winner, winning_line, moves, board_state, total_moves, duration_seconds,
	       created_at, finished_at`

// SaveGame archives one finished round. Saving the same round twice
// overwrites the earlier row.
func (r *GameRepo) SaveGame(ctx context.Context, rec *domain.GameRecord) error {
	line := rec.Result.Line
	if line == nil {
		line = []domain.Coord{}
	}
	lineJSON, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal winning line: %w", err)
	}
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO games (` + gameColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (game_id, round) DO UPDATE SET
		result = EXCLUDED.result,
		winner = EXCLUDED.winner,
		winning_line = EXCLUDED.winning_line,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.Round, rec.Dimensions.Columns, rec.Dimensions.Rows,
		rec.Player1Name, rec.Player2Name, rec.BotDifficulty,
		string(rec.Result.Kind), int(rec.Result.Winner), lineJSON, movesJSON, boardJSON,
		rec.TotalMoves, rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

// ListRecent returns the most recently finished rounds.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	query := `
	SELECT ` + gameColumns + `
	FROM games
	ORDER BY finished_at DESC
	LIMIT $1;
	`
	return r.query(ctx, query, limit)
}

// GetGameRounds returns every archived round of a game, oldest first.
// An unknown game yields an empty slice.
func (r *GameRepo) GetGameRounds(ctx context.Context, gameID string) ([]domain.GameRecord, error) {
	query := `
	SELECT ` + gameColumns + `
	FROM games
	WHERE game_id = $1
	ORDER BY round ASC;
	`
	return r.query(ctx, query, gameID)
}

// DeleteOlderThan removes rounds finished before cutoff.
func (r *GameRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM games WHERE finished_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old games: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted games: %w", err)
	}
	return n, nil
}

func (r *GameRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

func scanGame(rows *sql.Rows) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var kind string
	var winner int
	var lineJSON, movesJSON, boardJSON []byte

	err := rows.Scan(
		&rec.GameID,
		&rec.Round,
		&rec.Dimensions.Columns,
		&rec.Dimensions.Rows,
		&rec.Player1Name,
		&rec.Player2Name,
		&rec.BotDifficulty,
		&kind,
		&winner,
		&lineJSON,
		&movesJSON,
		&boardJSON,
		&rec.TotalMoves,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan game row: %w", err)
	}

	rec.Result = domain.GameResult{Kind: domain.ResultKind(kind), Winner: domain.PlayerID(winner)}
	if err := json.Unmarshal(lineJSON, &rec.Result.Line); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winning line: %w", err)
	}
	if len(rec.Result.Line) == 0 {
		rec.Result.Line = nil
	}
	if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	return &rec, nil
}
