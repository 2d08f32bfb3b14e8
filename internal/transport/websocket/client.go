package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/iamasit07/dropfour/pkg/uid"
)

const (
	writeWait = 10 * time.Second
	// queued messages per client before it is treated as stuck and dropped
	sendBuffer = 64
)

// Client is one socket attached to a game, either the controlling device
// or a spectator. Only writePump writes to the connection.
type Client struct {
	ID         string
	GameID     string
	Controller bool

	conn      *websocket.Conn
	send      chan interface{}
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, gameID string, controller bool) *Client {
	return &Client{
		ID:         uid.GenerateConnectionID(),
		GameID:     gameID,
		Controller: controller,
		conn:       conn,
		send:       make(chan interface{}, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Send queues message without blocking. A client whose queue is full is
// closed and false is returned.
func (c *Client) Send(message interface{}) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		c.close()
		return false
	}
}

// close stops the write pump, which flushes what is queued and then closes
// the connection.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.write(message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-c.done:
			for {
				select {
				case message := <-c.send:
					if err := c.write(message); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (c *Client) write(message interface{}) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

// ConnectionManager handles active WebSocket connections per game thread-safely
type ConnectionManager struct {
	games map[string]map[string]*Client
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[string]*Client),
	}
}

// Add registers a client. A new controller for a game replaces the old
// one, which is closed.
func (cm *ConnectionManager) Add(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, ok := cm.games[c.GameID]
	if !ok {
		clients = make(map[string]*Client)
		cm.games[c.GameID] = clients
	}
	if c.Controller {
		for id, old := range clients {
			if old.Controller {
				old.close()
				delete(clients, id)
			}
		}
	}
	clients[c.ID] = c
}

// Remove drops the client only if it is still registered, so cleaning up a
// replaced connection never touches its successor.
func (cm *ConnectionManager) Remove(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if clients, ok := cm.games[c.GameID]; ok {
		if current, ok := clients[c.ID]; ok && current == c {
			delete(clients, c.ID)
		}
		if len(clients) == 0 {
			delete(cm.games, c.GameID)
		}
	}
	c.close()
}

// Publish queues message for every client of gameID. It implements the
// session notifier.
func (cm *ConnectionManager) Publish(gameID string, message domain.ServerMessage) {
	for _, c := range cm.clients(gameID) {
		c.Send(message)
	}
}

// CloseGame disconnects everyone attached to gameID.
func (cm *ConnectionManager) CloseGame(gameID string, reason string) {
	cm.mu.Lock()
	clients := cm.games[gameID]
	delete(cm.games, gameID)
	cm.mu.Unlock()

	for _, c := range clients {
		c.Send(domain.ErrorMessage{Type: domain.ServerError, Message: reason})
		c.close()
	}
}

func (cm *ConnectionManager) SpectatorCount(gameID string) int {
	n := 0
	for _, c := range cm.clients(gameID) {
		if !c.Controller {
			n++
		}
	}
	return n
}

func (cm *ConnectionManager) clients(gameID string) []*Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]*Client, 0, len(cm.games[gameID]))
	for _, c := range cm.games[gameID] {
		out = append(out, c)
	}
	return out
}
