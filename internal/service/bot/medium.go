package bot

import (
	"github.com/iamasit07/dropfour/internal/domain"
)

// calculateMediumMove takes a win, blocks a loss, then runs a shallow
// search over the columns that do not set up the opponent.
func calculateMediumMove(board *domain.Board, botPlayer domain.PlayerID) int {
	validColumns := centreOrder(board)
	if len(validColumns) == 0 {
		return -1
	}

	// === PHASE 1: immediate win ===
	if col, ok := findWinningMove(board, validColumns, botPlayer); ok {
		return col
	}

	// === PHASE 2: block opponent's immediate win ===
	if col, ok := findWinningMove(board, validColumns, botPlayer.Opponent()); ok {
		return col
	}

	// === PHASE 3: avoid handing the opponent a win on top of our chip ===
	safe := make([]int, 0, len(validColumns))
	for _, col := range validColumns {
		next, _, _ := board.SimulateMove(col, botPlayer)
		if _, loses := findWinningMove(next, []int{col}, botPlayer.Opponent()); !loses {
			safe = append(safe, col)
		}
	}
	if len(safe) == 1 {
		return safe[0]
	}
	if len(safe) == 0 {
		return validColumns[0]
	}

	return searchColumns(board, botPlayer, MediumDepth, safe)
}
