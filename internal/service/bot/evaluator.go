package bot

import (
	"github.com/iamasit07/dropfour/internal/domain"
)

const (
	POSITION_WEIGHT     = 10
	TWO_IN_ROW_WEIGHT   = 50
	THREE_IN_ROW_WEIGHT = 500
	CENTER_WEIGHT       = 2 * POSITION_WEIGHT
)

var lineDirections = [][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal /
	{-1, 1}, // diagonal \
}

// evaluateBoard calculates a heuristic score for the current board position
func evaluateBoard(board *domain.Board, botPlayer, opponent domain.PlayerID) int {
	score := 0

	for row := 0; row < board.Rows(); row++ {
		for col := 0; col < board.Columns(); col++ {
			switch board.CellAt(row, col) {
			case botPlayer:
				score += evaluatePosition(board, row, col, botPlayer)
			case opponent:
				score -= evaluatePosition(board, row, col, opponent)
			}
		}
	}

	// Center column preference
	centerCol := (board.Columns() - 1) / 2
	for row := 0; row < board.Rows(); row++ {
		switch board.CellAt(row, centerCol) {
		case botPlayer:
			score += CENTER_WEIGHT
		case opponent:
			score -= CENTER_WEIGHT
		}
	}

	return score
}

// evaluatePosition evaluates a single chip's contribution to the score
func evaluatePosition(board *domain.Board, row, col int, player domain.PlayerID) int {
	score := POSITION_WEIGHT

	for _, dir := range lineDirections {
		dRow, dCol := dir[0], dir[1]

		posCount := board.CountDiskInDirection(row, col, dRow, dCol, player)
		negCount := board.CountDiskInDirection(row, col, -dRow, -dCol, player)
		total := posCount + negCount + 1

		if !checkSpaceForExtension(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}
		if total >= 3 {
			score += THREE_IN_ROW_WEIGHT
		} else if total == 2 {
			score += TWO_IN_ROW_WEIGHT
		}
	}

	return score
}

// Helper: check if there's room to extend a line
func checkSpaceForExtension(board *domain.Board, row, col, dRow, dCol, posCount, negCount int) bool {
	posRow := row + dRow*(posCount+1)
	posCol := col + dCol*(posCount+1)
	if board.InBounds(posRow, posCol) && board.CellAt(posRow, posCol) == domain.Empty && isPlayableSpace(board, posRow, posCol) {
		return true
	}

	negRow := row - dRow*(negCount+1)
	negCol := col - dCol*(negCount+1)
	if board.InBounds(negRow, negCol) && board.CellAt(negRow, negCol) == domain.Empty && isPlayableSpace(board, negRow, negCol) {
		return true
	}

	return false
}

// isPlayableSpace reports whether a chip dropped now would land exactly there.
func isPlayableSpace(board *domain.Board, row, col int) bool {
	return board.Height(col) == row
}
