package domain

// ClientMessage is what the touch client sends over the socket.
type ClientMessage struct {
	Type   string  `json:"type"`
	GameID string  `json:"gameId,omitempty"`
	Token  string  `json:"token,omitempty"`
	X      float64 `json:"x,omitempty"`
}

const (
	ClientInit          = "init"
	ClientGestureBegin  = "gesture_begin"
	ClientGestureMove   = "gesture_move"
	ClientGestureEnd    = "gesture_end"
	ClientGestureCancel = "gesture_cancel"
	ClientAnimationDone = "animation_done"
	ClientNewGame       = "new_game"
)

const (
	ServerState        = "state"
	ServerChipHover    = "chip_hover"
	ServerChipCleared  = "chip_cleared"
	ServerMoveMade     = "move_made"
	ServerMoveRejected = "move_rejected"
	ServerGameOver     = "game_over"
	ServerError        = "error"
)

type ServerMessage struct {
	Type         string      `json:"type"`
	Message      string      `json:"message,omitempty"`
	GameID       string      `json:"gameId,omitempty"`
	Column       *int        `json:"column,omitempty"`
	Row          *int        `json:"row,omitempty"`
	Player       int         `json:"player,omitempty"`
	CenterX      float64     `json:"centerX,omitempty"`
	FallDistance float64     `json:"fallDistance,omitempty"`
	NextTurn     int         `json:"nextTurn,omitempty"`
	Board        [][]int     `json:"board,omitempty"`
	Result       *GameResult `json:"result,omitempty"`
	WinnerName   string      `json:"winnerName,omitempty"`
	WinnerColor  string      `json:"winnerColor,omitempty"`
	State        *StateView  `json:"state,omitempty"`
}

// StateView is the full picture a client needs to render a game from scratch.
type StateView struct {
	GameID        string     `json:"gameId"`
	Round         int        `json:"round"`
	Columns       int        `json:"columns"`
	Rows          int        `json:"rows"`
	Board         [][]int    `json:"board"`
	CurrentTurn   int        `json:"currentTurn"`
	Status        GameStatus `json:"status"`
	Result        GameResult `json:"result"`
	Moves         []Drop     `json:"moves"`
	Gate          string     `json:"gate"`
	Player1Name   string     `json:"player1Name"`
	Player2Name   string     `json:"player2Name"`
	BotDifficulty string     `json:"botDifficulty,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// IntPtr keeps zero columns and rows visible in omitempty JSON.
func IntPtr(v int) *int {
	return &v
}
