package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/dropfour/internal/service/game"
)

type SpectatorCounter interface {
	SpectatorCount(gameID string) int
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Spectators     SpectatorCounter
}

func NewWatchHandler(sm *game.SessionManager, spectators SpectatorCounter) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Spectators: spectators}
}

type liveGameResponse struct {
	game.LiveGame
	SpectatorCount int `json:"spectatorCount"`
}

// GetLiveGames returns all live sessions available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	activeGames := h.SessionManager.ActiveGames()

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		response = append(response, liveGameResponse{
			LiveGame:       g,
			SpectatorCount: h.Spectators.SpectatorCount(g.GameID),
		})
	}

	c.JSON(http.StatusOK, response)
}
