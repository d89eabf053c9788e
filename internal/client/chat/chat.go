// Package chat connects to the real-time messaging endpoint over a
// websocket. Messages travel both ways as a single named event; the
// channel keeps a session-scoped, append-only list of everything
// received while the chat view is open. Delivery is best effort: no
// reconnect, no ordering guarantees.
package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/feedbird/feedbird/internal/models"
)

// eventName is the single event both sides publish and subscribe to.
const eventName = "chatMessage"

// envelope frames a chat message on the wire.
type envelope struct {
	Event string             `json:"event"`
	Data  models.ChatMessage `json:"data"`
}

// Channel is one live connection to the chat endpoint. Construct with
// Dial; Close tears the connection down when the chat view goes away.
type Channel struct {
	conn *websocket.Conn
	log  *zap.Logger

	mu       sync.Mutex
	messages []models.ChatMessage
	closed   bool
	subs     map[int]func()
	nextSub  int
}

// Dial opens a connection to the chat endpoint and starts reading
// incoming messages.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Channel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial chat endpoint: %w", err)
	}
	ch := &Channel{
		conn: conn,
		log:  log,
		subs: make(map[int]func()),
	}
	go ch.readPump()
	return ch, nil
}

// readPump appends each received message to the local list until the
// connection dies. Frames carrying a different event name are ignored.
func (c *Channel) readPump() {
	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			c.mu.Lock()
			alreadyClosed := c.closed
			c.closed = true
			c.mu.Unlock()
			if !alreadyClosed {
				c.log.Warn("chat connection closed", zap.Error(err))
			}
			c.notify()
			return
		}
		if env.Event != eventName {
			continue
		}
		c.mu.Lock()
		c.messages = append(c.messages, env.Data)
		c.mu.Unlock()
		c.notify()
	}
}

// Subscribe registers fn to run whenever a message arrives or the
// connection closes, and returns a function removing the subscription.
func (c *Channel) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Channel) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Messages returns a copy of everything received so far, in arrival
// order.
func (c *Channel) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Closed reports whether the connection has ended.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Send publishes one message on the chat event.
func (c *Channel) Send(user, text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("chat channel is closed")
	}
	c.mu.Unlock()
	env := envelope{Event: eventName, Data: models.ChatMessage{User: user, Text: text}}
	return c.conn.WriteJSON(env)
}

// Close tears the connection down. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	_ = c.conn.Close()
}
