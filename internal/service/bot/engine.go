package bot

import (
	"math/rand"

	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// CalculateBestMove selects the best move based on difficulty.
// It returns -1 only when the board has no open column.
func CalculateBestMove(board *domain.Board, botPlayer domain.PlayerID, difficulty string, rng *rand.Rand) int {
	switch difficulty {
	case DifficultyEasy:
		return CalculateBestMoveEasy(board, botPlayer, rng)
	case DifficultyHard:
		return CalculateBestMoveMinimax(board, botPlayer, HardDepth)
	default:
		return calculateMediumMove(board, botPlayer)
	}
}
