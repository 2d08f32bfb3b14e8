package domain

import "time"

// GameRecord is a finished game as it is archived.
type GameRecord struct {
	GameID          string     `json:"gameId"`
	Round           int        `json:"round"`
	Dimensions      Dimensions `json:"dimensions"`
	Player1Name     string     `json:"player1Name"`
	Player2Name     string     `json:"player2Name"`
	BotDifficulty   string     `json:"botDifficulty,omitempty"`
	Result          GameResult `json:"result"`
	Moves           []Drop     `json:"moves"`
	Board           [][]int    `json:"board"`
	TotalMoves      int        `json:"totalMoves"`
	DurationSeconds int        `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	FinishedAt      time.Time  `json:"finishedAt"`
}

// WinnerName is the display name of the winner, "draw", or empty while in progress.
func (r *GameRecord) WinnerName() string {
	switch {
	case r.Result.Kind == ResultDraw:
		return "draw"
	case r.Result.Winner == Player1:
		return r.Player1Name
	case r.Result.Winner == Player2:
		return r.Player2Name
	}
	return ""
}

// Columns lists the dropped columns in order, enough to replay the game.
func (r *GameRecord) Columns() []int {
	cols := make([]int, len(r.Moves))
	for i, m := range r.Moves {
		cols[i] = m.Column
	}
	return cols
}

const ErrCacheMiss Error = "cache miss"
