package domain

import "fmt"

var BotNames = map[string]string{
	"easy":   "Alice",
	"medium": "Bob",
	"hard":   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

// PlayerID doubles as the cell value: Empty means no chip in the slot.
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

// Name is the display name shown on the result screen.
func (p PlayerID) Name() string {
	switch p {
	case Player1:
		return "Red"
	case Player2:
		return "Yellow"
	}
	return ""
}

// Color is the chip colour as a hex string.
func (p PlayerID) Color() string {
	switch p {
	case Player1:
		return "#E53935"
	case Player2:
		return "#FDD835"
	}
	return ""
}

func (p PlayerID) String() string {
	switch p {
	case Empty:
		return "empty"
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return fmt.Sprintf("player(%d)", int(p))
}

const (
	DefaultColumns = 6
	DefaultRows    = 6
	ToWin          = 4
)

// Dimensions of a board. Row 0 is the bottom row, column 0 the leftmost.
type Dimensions struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func DefaultDimensions() Dimensions {
	return Dimensions{Columns: DefaultColumns, Rows: DefaultRows}
}

func (d Dimensions) Validate() error {
	if d.Columns < 1 || d.Rows < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, d.Columns, d.Rows)
	}
	return nil
}

func (d Dimensions) Cells() int {
	return d.Columns * d.Rows
}

// Coord addresses a single cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Drop is one committed chip: the column chosen, who placed it and where it landed.
type Drop struct {
	Column int      `json:"column"`
	Row    int      `json:"row"`
	Player PlayerID `json:"player"`
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn     Error = "invalid column"
	ErrColumnFull        Error = "column is full"
	ErrGameOver          Error = "game is already resolved"
	ErrInvalidDimensions Error = "invalid board dimensions"
	ErrInvalidBoard      Error = "board violates gravity"
)
