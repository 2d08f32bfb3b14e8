package domain

import "sort"

type ResultKind string

const (
	ResultInProgress ResultKind = "in_progress"
	ResultWin        ResultKind = "win"
	ResultDraw       ResultKind = "draw"
)

type GameResult struct {
	Kind   ResultKind `json:"kind"`
	Winner PlayerID   `json:"winner,omitempty"`
	Line   []Coord    `json:"line,omitempty"`
}

func InProgress() GameResult {
	return GameResult{Kind: ResultInProgress}
}

func Draw() GameResult {
	return GameResult{Kind: ResultDraw}
}

func Win(player PlayerID, line []Coord) GameResult {
	return GameResult{Kind: ResultWin, Winner: player, Line: line}
}

func (r GameResult) IsResolved() bool {
	return r.Kind == ResultWin || r.Kind == ResultDraw
}

func (r GameResult) Status() GameStatus {
	switch r.Kind {
	case ResultWin:
		return StatusWon
	case ResultDraw:
		return StatusDraw
	}
	return StatusActive
}

type direction struct {
	name string
	dRow int
	dCol int
}

// Scan order is fixed so that a chip completing two lines at once always
// reports the same one. Row grows upward, so "down-right" walks (-1,+1) and
// "down-left" walks (-1,-1); the opposite half of each pair is walked too.
var directions = []direction{
	{name: "horizontal", dRow: 0, dCol: 1},
	{name: "vertical", dRow: 1, dCol: 0},
	{name: "diagonal-down-right", dRow: -1, dCol: 1},
	{name: "diagonal-down-left", dRow: -1, dCol: -1},
}

// EvaluateWin looks only at lines through (row, col). It never mutates the board.
func EvaluateWin(b *Board, row, col int) GameResult {
	if !b.InBounds(row, col) {
		return InProgress()
	}
	player := b.cells[row][col]
	if player == Empty {
		return InProgress()
	}

	for _, d := range directions {
		forward := b.CountDiskInDirection(row, col, d.dRow, d.dCol, player)
		backward := b.CountDiskInDirection(row, col, -d.dRow, -d.dCol, player)
		if forward+backward+1 < ToWin {
			continue
		}
		// exactly ToWin cells: the first window from the backward end that
		// still holds the placed chip
		start := max(backward-(ToWin-1), 0)
		line := make([]Coord, 0, ToWin)
		for i := start; i < start+ToWin; i++ {
			step := i - backward
			line = append(line, Coord{Row: row + d.dRow*step, Col: col + d.dCol*step})
		}
		sortLine(line)
		return Win(player, line)
	}

	if b.IsFull() {
		return Draw()
	}
	return InProgress()
}

// CheckWin is the boolean form used by the bot's search.
func CheckWin(b *Board, row, col int, player PlayerID) bool {
	if !b.InBounds(row, col) || b.cells[row][col] != player {
		return false
	}
	res := EvaluateWin(b, row, col)
	return res.Kind == ResultWin
}

// lines read left to right; vertical lines bottom to top
func sortLine(line []Coord) {
	sort.Slice(line, func(i, j int) bool {
		if line[i].Col != line[j].Col {
			return line[i].Col < line[j].Col
		}
		return line[i].Row < line[j].Row
	})
}
