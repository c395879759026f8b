/*
Package relay contains the core logic of the real-time message relay.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle, the read and write pumps,
and its interaction with the Hub.
*/
package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"linguachat/internal/app/user"
	"linguachat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the capacity of the per-connection outbound queue.
	sendQueueSize = 256

	// CloseCodeSessionReplaced is a custom WebSocket Close Code (4000-4999
	// range) signaling that the session was replaced by a newer connection
	// from the same user. Clients use it to suppress automatic reconnect.
	CloseCodeSessionReplaced = 4001
)

// Client represents an active WebSocket connection and its authenticated user.
// It implements Session.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	usr  user.User

	// send queues marshaled frames waiting to be written to the connection.
	send chan []byte

	// mu guards closed so Enqueue never races a CloseSend.
	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewClient constructs a Client for an already-upgraded, already-authenticated
// connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, usr user.User) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("user_id", usr.ID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		usr:    usr,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// User returns the identity the connection was admitted with.
func (c *Client) User() user.User {
	return c.usr
}

// ReadPump reads frames from the WebSocket connection, dispatches send-message
// events to the hub, and performs cleanup upon connection closure. It must run
// on the connection's handler goroutine: each connection's inbound events are
// processed to completion, in order, before the next one is read.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// cleanupOnDisconnect hands the session back to the hub when ReadPump ends.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInboundFrame validates a raw frame at the boundary and dispatches it.
func (c *Client) processInboundFrame(frame []byte) {
	var inbound struct {
		Type    EventType       `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(frame, &inbound); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Type {
	case EventSendMessage:
		var p SendPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
			return
		}
		c.hub.HandleSend(context.Background(), c, p)

	default:
		c.logger.Warn().Str("event_type", string(inbound.Type)).Msg("Client sent unsupported event type")
	}
}

// WritePump writes queued frames from the send channel to the WebSocket
// connection and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// Enqueue marshals the event and queues it for delivery. Best-effort: when the
// session is closed or its queue is full the event is dropped and false is
// returned.
func (c *Client) Enqueue(env Envelope) bool {
	frame, err := json.Marshal(env)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling event for client")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event")
		return false
	}
}

// CloseSend closes the outbound queue exactly once. Only the hub calls it,
// after the session has left the registry.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Kick gracefully closes the connection by sending a custom WebSocket Close
// Frame (code 4001) indicating that the session was replaced.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", CloseCodeSessionReplaced).
		Str("reason", reason).
		Msg("Sending WS kick message and closing connection.")

	closeMessage := websocket.FormatCloseMessage(CloseCodeSessionReplaced, reason)

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send WS close message.")
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error in Kick")
	}
}
