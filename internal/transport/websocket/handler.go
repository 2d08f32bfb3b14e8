package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/internal/service/game"
	"github.com/iamasit07/dropfour/pkg/auth"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Seats          *auth.SeatSigner
	Upgrader       websocket.Upgrader
	logger         *zap.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins
// accepts any origin.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, seats *auth.SeatSigner, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Seats:          seats,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.Named("ws"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	h.handleConnection(r.Context(), conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// 1. Wait for initialization
	client, session, ok := h.initialize(ctx, conn)
	if !ok {
		conn.Close()
		return
	}

	go client.writePump()
	h.ConnManager.Add(client)
	defer func() {
		h.logger.Debug("connection closed", zap.String("game_id", client.GameID), zap.String("conn_id", client.ID))
		h.ConnManager.Remove(client)
	}()

	state := session.State()
	client.Send(domain.ServerMessage{Type: domain.ServerState, GameID: session.GameID, State: &state})

	// 2. Main message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("client disconnected unexpectedly", zap.String("game_id", client.GameID), zap.Error(err))
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("invalid message format", zap.Error(err))
			client.Send(domain.ErrorMessage{Type: domain.ServerError, Message: "invalid message"})
			continue
		}

		if !client.Controller {
			client.Send(domain.ErrorMessage{Type: domain.ServerError, Message: "spectators cannot play"})
			continue
		}

		if err := h.processMessage(ctx, session, msg); err != nil {
			if !isRejectedDrop(err) {
				client.Send(domain.ErrorMessage{Type: domain.ServerError, Message: err.Error()})
			}
		}
	}
}

func (h *Handler) initialize(ctx context.Context, conn *websocket.Conn) (*Client, *game.GameSession, bool) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		h.logger.Debug("read error during init", zap.Error(err))
		return nil, nil, false
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil || message.Type != domain.ClientInit || message.GameID == "" {
		conn.WriteJSON(domain.ErrorMessage{Type: domain.ServerError, Message: "expected init with a game id"})
		return nil, nil, false
	}

	session, err := h.SessionManager.Restore(ctx, message.GameID)
	if err != nil {
		h.logger.Info("init for unknown game", zap.String("game_id", message.GameID), zap.Error(err))
		conn.WriteJSON(domain.ErrorMessage{Type: domain.ServerError, Message: "game not found"})
		return nil, nil, false
	}

	controller := false
	if message.Token != "" {
		if _, err := h.Seats.ValidateSeatToken(message.Token, message.GameID); err != nil {
			h.logger.Info("invalid seat token", zap.String("game_id", message.GameID), zap.Error(err))
			conn.WriteJSON(domain.ErrorMessage{Type: domain.ServerError, Message: "invalid seat token"})
			return nil, nil, false
		}
		controller = true
	}

	client := newClient(conn, message.GameID, controller)
	h.logger.Info("connection initialized",
		zap.String("game_id", message.GameID),
		zap.String("conn_id", client.ID),
		zap.Bool("controller", controller),
	)
	return client, session, true
}

// processMessage routes specific actions
func (h *Handler) processMessage(ctx context.Context, session *game.GameSession, msg domain.ClientMessage) error {
	switch msg.Type {
	case domain.ClientGestureBegin:
		return session.GestureBegin(ctx, msg.X)
	case domain.ClientGestureMove:
		return session.GestureMove(ctx, msg.X)
	case domain.ClientGestureEnd:
		return session.GestureEnd(ctx)
	case domain.ClientGestureCancel:
		return session.GestureCancel(ctx)
	case domain.ClientAnimationDone:
		return session.AnimationDone(ctx)
	case domain.ClientNewGame:
		session.NewGame(ctx)
		return nil
	}
	return errors.New("unknown message type " + msg.Type)
}

// the session already broadcast move_rejected for these
func isRejectedDrop(err error) bool {
	return errors.Is(err, domain.ErrColumnFull) || errors.Is(err, domain.ErrInvalidColumn)
}
