package bot

import (
	"math/rand"

	"github.com/iamasit07/dropfour/internal/domain"
)

// CalculateBestMoveEasy wins if it can, blocks if it must and otherwise plays at random.
func CalculateBestMoveEasy(board *domain.Board, botPlayer domain.PlayerID, rng *rand.Rand) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}

	if col, ok := findWinningMove(board, validColumns, botPlayer); ok {
		return col
	}
	if col, ok := findWinningMove(board, validColumns, botPlayer.Opponent()); ok {
		return col
	}

	return validColumns[rng.Intn(len(validColumns))]
}

func findWinningMove(board *domain.Board, columns []int, player domain.PlayerID) (int, bool) {
	for _, col := range columns {
		testBoard, row, err := board.SimulateMove(col, player)
		if err != nil {
			continue
		}
		if domain.CheckWin(testBoard, row, col, player) {
			return col, true
		}
	}
	return -1, false
}
