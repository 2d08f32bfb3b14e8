package bot

import (
	"math"

	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	HardDepth   = 6
	MediumDepth = 3

	MINIMAX_WIN  = 1000000
	MINIMAX_LOSS = -1000000
)

// CalculateBestMoveMinimax implements minimax with alpha-beta pruning.
// Columns are tried centre-out, which both prunes better and breaks ties
// toward the middle.
func CalculateBestMoveMinimax(board *domain.Board, botPlayer domain.PlayerID, depth int) int {
	return searchColumns(board, botPlayer, depth, centreOrder(board))
}

// searchColumns runs the root of the search over validColumns only.
func searchColumns(board *domain.Board, botPlayer domain.PlayerID, depth int, validColumns []int) int {
	if len(validColumns) == 0 {
		return -1
	}

	bestCol := validColumns[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32
	opponent := botPlayer.Opponent()

	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, botPlayer)

		// If this move wins immediately, take it
		if domain.CheckWin(testBoard, row, col, botPlayer) {
			return col
		}

		score := minimax(testBoard, depth-1, depth, alpha, beta, false, botPlayer, opponent)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol
}

func minimax(board *domain.Board, depth, rootDepth int, alpha, beta int, isMaximizing bool, botPlayer, opponent domain.PlayerID) int {
	validColumns := centreOrder(board)

	if depth == 0 || len(validColumns) == 0 {
		return evaluateBoard(board, botPlayer, opponent)
	}

	if isMaximizing {
		maxEval := math.MinInt32
		for _, col := range validColumns {
			testBoard, row, _ := board.SimulateMove(col, botPlayer)
			if domain.CheckWin(testBoard, row, col, botPlayer) {
				return MINIMAX_WIN - (rootDepth - depth) // prefer quicker wins
			}

			eval := minimax(testBoard, depth-1, rootDepth, alpha, beta, false, botPlayer, opponent)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, opponent)
		if domain.CheckWin(testBoard, row, col, opponent) {
			return MINIMAX_LOSS + (rootDepth - depth) // prefer delaying losses
		}

		eval := minimax(testBoard, depth-1, rootDepth, alpha, beta, true, botPlayer, opponent)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}

// centreOrder lists open columns by distance from the centre, left first on ties.
func centreOrder(board *domain.Board) []int {
	cols := board.Columns()
	centre := (cols - 1) / 2
	order := make([]int, 0, cols)
	for offset := 0; offset < cols; offset++ {
		candidates := []int{centre - offset}
		if offset > 0 {
			candidates = append(candidates, centre+offset)
		}
		for _, col := range candidates {
			if col < 0 || col >= cols {
				continue
			}
			if !board.IsColumnFull(col) {
				order = append(order, col)
			}
		}
	}
	return order
}
