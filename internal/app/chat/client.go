package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"groupchat/internal/app/store"
	"groupchat/internal/pkg/errs"
	"groupchat/internal/pkg/logx"
)

const (
	// writeWait bounds a single write to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a pong before declaring the
	// connection dead.
	pongWait = 60 * time.Second

	// pingPeriod is how often pings go out; it must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize caps an inbound frame in bytes.
	maxFrameSize = 8192

	// sendQueueSize is the per-client outbound buffer. A client that cannot
	// drain this many frames is treated as dead.
	sendQueueSize = 256

	// submitTimeout bounds the persist-and-broadcast work for one inbound
	// message frame.
	submitTimeout = 10 * time.Second
)

// Submitter is the slice of the ingress pipeline the live channel uses:
// inbound message frames are persisted and fanned out through it.
type Submitter interface {
	Submit(ctx context.Context, username, room, content string, attachment *store.Attachment) (store.Message, *errs.CustomError)
}

// Client drives one live connection through its protocol states: connecting
// until Register joins it to a room, open while the pumps run, closed once
// the read loop unwinds and the session has left the registry.
type Client struct {
	conn     *websocket.Conn
	registry *Registry
	ingress  Submitter

	username string
	room     string
	session  *Session

	// send queues outbound frames for the write loop.
	send chan []byte

	// done tells the write loop to finish after the read loop unwound.
	done chan struct{}

	// leaveOnce guarantees exactly one registry leave per connection.
	leaveOnce sync.Once

	logger zerolog.Logger
}

// NewClient wraps an upgraded connection. The caller starts WritePump,
// calls Register, then blocks in ReadPump.
func NewClient(conn *websocket.Conn, registry *Registry, ingress Submitter, username, room string) *Client {
	if room == "" {
		room = store.DefaultRoom
	}

	return &Client{
		conn:     conn,
		registry: registry,
		ingress:  ingress,
		username: username,
		room:     room,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
		logger: logx.Logger().With().
			Str("component", "ws_client").
			Str("username", username).
			Str("room", room).
			Logger(),
	}
}

// Send queues a frame for delivery. It never blocks: a full queue is
// reported as an error so the registry prunes the session.
func (c *Client) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return errors.New("send queue full")
	}
}

// Register joins the client's session to its room. The write pump must
// already be running so the client receives its own user_joined frame.
func (c *Client) Register() {
	c.session = c.registry.Join(c, c.username, c.room)
}

// ReadPump consumes inbound frames until the connection dies, then performs
// the single registry leave for this session.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

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
				c.logger.Info().Err(err).Msg("Connection read ended")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// cleanupOnDisconnect leaves the registry exactly once, stops the write loop
// and closes the underlying connection.
func (c *Client) cleanupOnDisconnect() {
	c.leaveOnce.Do(func() {
		c.registry.Leave(c.session)
		close(c.done)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error during cleanup")
		}

		c.logger.Info().Msg("Connection cleaned up")
	})
}

// processInboundFrame dispatches one tagged frame. Malformed frames and
// unknown tags are dropped without closing the connection.
func (c *Client) processInboundFrame(frame []byte) {
	var inbound struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}

	if err := json.Unmarshal(frame, &inbound); err != nil {
		c.logger.Warn().Err(err).Msg("Dropping unparseable frame")
		return
	}

	switch inbound.Type {
	case inboundTypeMessage:
		c.handleMessage(inbound.Content)

	case inboundTypeMessageUpdated:
		// Thin passthrough for HTTP-side edits: the frame is re-broadcast to
		// the sender's room verbatim, without persistence-layer validation.
		c.registry.Broadcast(json.RawMessage(frame), c.room)

	default:
		c.logger.Warn().Str("frame_type", inbound.Type).Msg("Dropping frame with unsupported type")
	}
}

// handleMessage runs an inbound chat message through the ingress pipeline.
// Empty-after-trim content is ignored silently; pipeline errors are logged
// and never terminate the connection.
func (c *Client) handleMessage(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	if _, err := c.ingress.Submit(ctx, c.username, c.room, content, nil); err != nil {
		c.logger.Warn().Err(err).Msg("Inbound message rejected by ingress pipeline")
	}
}

// WritePump drains the send queue to the connection and keeps the heartbeat
// going. It exits when the read loop signals done or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in write pump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing ping")
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close frame")
			}
			return
		}
	}
}
