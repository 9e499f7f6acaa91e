// Package ws broadcasts the positions of a match to websocket clients as JSON.
package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gorgonia/gamesweet/game"
)

// DefaultPingInterval is how long a connection may stay idle before a ping frame is sent.
const DefaultPingInterval = 30 * time.Second

// Frame is a message sent to clients.
type Frame struct {
	Type   string        `json:"type"` // "position" or "ping"
	Name   string        `json:"name,omitempty"`
	Game   int           `json:"game,omitempty"`
	Rows   int           `json:"rows,omitempty"`
	Cols   int           `json:"cols,omitempty"`
	Board  []game.Colour `json:"board,omitempty"`
	Text   string        `json:"text,omitempty"`
	Ended  bool          `json:"ended,omitempty"`
	Winner string        `json:"winner,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// trySend drops the message if the client is not keeping up.
func (c *client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Encoder sends every position it is given to all connected clients. New clients get the latest position first.
// It implements gamesweet.OutputEncoder and http.Handler.
type Encoder struct {
	PingInterval time.Duration

	mu       sync.Mutex
	clients  map[*client]struct{}
	last     []byte
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewEncoder(logger zerolog.Logger) *Encoder {
	return &Encoder{
		PingInterval: DefaultPingInterval,
		clients:      make(map[*client]struct{}),
		upgrader:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:       logger,
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	f := Frame{
		Type: "position",
		Name: ms.Name(),
		Game: ms.GameNumber(),
		Text: strings.TrimRight(fmt.Sprintf("%s", ms.State()), "\n"),
	}
	if b, ok := ms.State().(game.Board); ok {
		f.Rows, f.Cols = b.BoardSize()
		f.Board = b.Board()
	}
	f.Ended, f.Winner = ms.Result()

	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "ws: unable to marshal frame")
	}

	enc.mu.Lock()
	defer enc.mu.Unlock()
	enc.last = data
	for c := range enc.clients {
		if !c.trySend(data) {
			enc.logger.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("dropped frame for slow client")
		}
	}
	return nil
}

func (enc *Encoder) Flush() error { return nil }

// Clients returns the number of connected clients.
func (enc *Encoder) Clients() int {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	return len(enc.clients)
}

// Close disconnects every client.
func (enc *Encoder) Close() error {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	for c := range enc.clients {
		delete(enc.clients, c)
		close(c.send)
	}
	return nil
}

func (enc *Encoder) register(c *client) {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	enc.clients[c] = struct{}{}
	if enc.last != nil {
		c.trySend(enc.last)
	}
}

func (enc *Encoder) unregister(c *client) {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	if _, ok := enc.clients[c]; ok {
		delete(enc.clients, c)
		close(c.send)
	}
}

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := enc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		enc.logger.Error().Err(err).Msg("upgrade")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	enc.register(c)
	logger := enc.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Debug().Msg("client connected")

	go enc.readPump(c)
	if err := enc.writePump(c); err != nil {
		logger.Debug().Err(err).Msg("write")
	}
	enc.unregister(c)
	conn.Close()
	logger.Debug().Msg("client disconnected")
}

// readPump discards whatever the client sends, and notices when it goes away.
func (enc *Encoder) readPump(c *client) {
	defer enc.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (enc *Encoder) writePump(c *client) error {
	interval := enc.PingInterval
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping, _ := json.Marshal(Frame{Type: "ping"})

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
