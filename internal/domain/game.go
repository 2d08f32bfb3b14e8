package domain

// EngineState is AwaitingDrop until a win or a full board resolves the game.
type EngineState string

const (
	StateAwaitingDrop EngineState = "awaiting_drop"
	StateResolved     EngineState = "resolved"
)

// Engine is the authoritative rules state machine for one game.
// It is not safe for concurrent writers; callers serialise CommitDrop.
type Engine struct {
	board         *Board
	currentPlayer PlayerID
	result        GameResult
	moves         []Drop
}

func NewEngine(dims Dimensions) (*Engine, error) {
	board, err := NewBoard(dims)
	if err != nil {
		return nil, err
	}
	return &Engine{
		board:         board,
		currentPlayer: Player1,
		result:        InProgress(),
	}, nil
}

// Replay rebuilds an engine by committing columns in order.
func Replay(dims Dimensions, columns []int) (*Engine, error) {
	e, err := NewEngine(dims)
	if err != nil {
		return nil, err
	}
	for _, col := range columns {
		if _, err := e.CommitDrop(col); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// CommitDrop places the current player's chip in column and returns the
// landing row. A rejected drop changes nothing.
func (e *Engine) CommitDrop(column int) (int, error) {
	if e.result.IsResolved() {
		return -1, ErrGameOver
	}

	row, err := e.board.DropDisk(column, e.currentPlayer)
	if err != nil {
		return -1, err
	}
	e.moves = append(e.moves, Drop{Column: column, Row: row, Player: e.currentPlayer})

	e.result = e.EvaluateWin(row, column)
	if !e.result.IsResolved() {
		e.currentPlayer = e.currentPlayer.Opponent()
	}
	return row, nil
}

// PlaceFor drops a chip for an explicit player without touching the turn.
// Test harnesses use it to build positions; it still honours gravity and the
// terminal state.
func (e *Engine) PlaceFor(player PlayerID, column int) (int, error) {
	if e.result.IsResolved() {
		return -1, ErrGameOver
	}
	row, err := e.board.DropDisk(column, player)
	if err != nil {
		return -1, err
	}
	e.moves = append(e.moves, Drop{Column: column, Row: row, Player: player})
	e.result = e.EvaluateWin(row, column)
	return row, nil
}

func (e *Engine) EvaluateWin(row, col int) GameResult {
	return EvaluateWin(e.board, row, col)
}

func (e *Engine) IsDraw() bool {
	return e.result.Kind == ResultDraw
}

func (e *Engine) CurrentPlayer() PlayerID {
	return e.currentPlayer
}

func (e *Engine) CellAt(row, col int) PlayerID {
	return e.board.CellAt(row, col)
}

func (e *Engine) Result() GameResult {
	return e.result
}

func (e *Engine) State() EngineState {
	if e.result.IsResolved() {
		return StateResolved
	}
	return StateAwaitingDrop
}

func (e *Engine) IsFinished() bool {
	return e.result.IsResolved()
}

func (e *Engine) Dimensions() Dimensions {
	return e.board.Dimensions()
}

// Board returns a copy; mutating it does not affect the engine.
func (e *Engine) Board() *Board {
	return e.board.Clone()
}

func (e *Engine) LandingRow(col int) (int, error) {
	return e.board.LandingRow(col)
}

func (e *Engine) Moves() []Drop {
	out := make([]Drop, len(e.moves))
	copy(out, e.moves)
	return out
}

func (e *Engine) MoveCount() int {
	return len(e.moves)
}

// Reset starts a fresh game on a board of the same size.
func (e *Engine) Reset() {
	board, _ := NewBoard(e.board.Dimensions())
	e.board = board
	e.currentPlayer = Player1
	e.result = InProgress()
	e.moves = nil
}
