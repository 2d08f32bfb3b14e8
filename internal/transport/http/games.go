package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/input"
	"github.com/iamasit07/dropfour/internal/service/game"
	"github.com/iamasit07/dropfour/pkg/auth"
	"go.uber.org/zap"
)

// boards beyond this make the hard bot too slow to answer
const maxBoardSide = 12

type GamesHandler struct {
	SessionManager *game.SessionManager
	Seats          *auth.SeatSigner
	logger         *zap.Logger
}

func NewGamesHandler(sm *game.SessionManager, seats *auth.SeatSigner, logger *zap.Logger) *GamesHandler {
	return &GamesHandler{SessionManager: sm, Seats: seats, logger: logger.Named("http")}
}

type geometryRequest struct {
	SlotWidth    float64 `json:"slotWidth"`
	SlotHeight   float64 `json:"slotHeight"`
	BoardOriginX float64 `json:"boardOriginX"`
	BoardOriginY float64 `json:"boardOriginY"`
}

type createGameRequest struct {
	Columns     int             `json:"columns"`
	Rows        int             `json:"rows"`
	Geometry    geometryRequest `json:"geometry"`
	Bot         string          `json:"bot"`
	Player1Name string          `json:"player1Name"`
	Player2Name string          `json:"player2Name"`
}

type createGameResponse struct {
	GameID string           `json:"gameId"`
	Token  string           `json:"token"`
	State  domain.StateView `json:"state"`
}

// CreateGame starts a session and hands the caller the seat token that
// controls it.
func (h *GamesHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dims := h.SessionManager.DefaultDimensions()
	if req.Columns != 0 || req.Rows != 0 {
		dims = domain.Dimensions{Columns: req.Columns, Rows: req.Rows}
	}
	if dims.Columns > maxBoardSide || dims.Rows > maxBoardSide {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidDimensions.Error()})
		return
	}

	session, err := h.SessionManager.CreateSession(c.Request.Context(), game.SessionOptions{
		Dimensions: dims,
		Geometry: input.Geometry{
			Columns:      dims.Columns,
			Rows:         dims.Rows,
			SlotWidth:    req.Geometry.SlotWidth,
			SlotHeight:   req.Geometry.SlotHeight,
			BoardOriginX: req.Geometry.BoardOriginX,
			BoardOriginY: req.Geometry.BoardOriginY,
		},
		Player1Name:   req.Player1Name,
		Player2Name:   req.Player2Name,
		BotDifficulty: req.Bot,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	token, err := h.Seats.GenerateSeatToken(session.GameID)
	if err != nil {
		h.logger.Error("signing seat token", zap.String("game_id", session.GameID), zap.Error(err))
		_ = h.SessionManager.RemoveSession(c.Request.Context(), session.GameID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue seat token"})
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{
		GameID: session.GameID,
		Token:  token,
		State:  session.State(),
	})
}

func (h *GamesHandler) GetGame(c *gin.Context) {
	session, err := h.SessionManager.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.State())
}

// ResetGame starts the next round. Requires the seat token.
func (h *GamesHandler) ResetGame(c *gin.Context) {
	session, err := h.SessionManager.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	session.NewGame(c.Request.Context())
	c.JSON(http.StatusOK, session.State())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGeometryMismatch),
		errors.Is(err, game.ErrUnknownBot),
		errors.Is(err, domain.ErrInvalidDimensions),
		errors.Is(err, input.ErrInvalidGeometry):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
