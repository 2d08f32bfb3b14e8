package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/service/game"
)

type HistoryHandler struct {
	Service *game.Service
}

func NewHistoryHandler(svc *game.Service) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

type gameHistoryItem struct {
	ID              string            `json:"id"`
	Round           int               `json:"round"`
	Dimensions      domain.Dimensions `json:"dimensions"`
	Player1Name     string            `json:"player1Name"`
	Player2Name     string            `json:"player2Name"`
	BotDifficulty   string            `json:"botDifficulty,omitempty"`
	Result          domain.ResultKind `json:"result"`
	Winner          string            `json:"winner,omitempty"`
	MovesCount      int               `json:"movesCount"`
	DurationSeconds int               `json:"durationSeconds"`
	FinishedAt      time.Time         `json:"finishedAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.Service.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for i := range records {
		rec := &records[i]
		history = append(history, gameHistoryItem{
			ID:              rec.GameID,
			Round:           rec.Round,
			Dimensions:      rec.Dimensions,
			Player1Name:     rec.Player1Name,
			Player2Name:     rec.Player2Name,
			BotDifficulty:   rec.BotDifficulty,
			Result:          rec.Result.Kind,
			Winner:          rec.WinnerName(),
			MovesCount:      rec.TotalMoves,
			DurationSeconds: rec.DurationSeconds,
			FinishedAt:      rec.FinishedAt,
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns every archived round of a game with its board and moves.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	rounds, err := h.Service.GameDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gameId": c.Param("id"), "rounds": rounds})
}
