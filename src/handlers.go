package game

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1024
	sendBufferSize = 256
)

var errSendBufferFull = errors.New("send buffer full")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are filtered by the HTTP CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection. The game loop writes through Send;
// writePump owns the socket's write side.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	limiter   *rate.Limiter
	closeOnce sync.Once
}

// NewSessionID issues the opaque id that identifies a connection to the game loop.
func NewSessionID() string {
	return uuid.New().String()
}

// HandleConnections upgrades the request and attaches the socket to the game loop.
func (s *GameServer) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("Upgrade error:", err)
		return
	}

	client := &Client{
		conn:      conn,
		sessionID: NewSessionID(),
		send:      make(chan []byte, sendBufferSize),
	}
	if s.messageRate > 0 {
		burst := s.messageBurst
		if burst < 1 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(s.messageRate), burst)
	}

	s.Connect(client.sessionID, client)
	go client.writePump()
	go client.readPump(s)
}

// Send queues a frame without blocking the game loop. A client that cannot
// keep up loses frames rather than stalling everyone else.
func (c *Client) Send(b []byte) error {
	select {
	case c.send <- b:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close stops the write pump, which closes the socket.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.send) })
	return nil
}

// readPump forwards frames to the game loop until the peer goes away.
func (c *Client) readPump(server *GameServer) {
	defer func() {
		server.Disconnect(c.sessionID)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				server.log.Printf("Read error from %s: %v", c.sessionID, err)
			}
			break
		}
		if c.limiter != nil && !c.limiter.Allow() {
			server.log.Printf("Rate limit exceeded by %s, dropping message", c.sessionID)
			continue
		}
		server.HandleMessage(c.sessionID, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
