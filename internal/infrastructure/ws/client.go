package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// clientCommand is the only inbound message shape: clients may join or
// leave lead rooms after connecting. User and role rooms are assigned at
// connect time and fixed.
type clientCommand struct {
	Action string    `json:"action"` // "subscribe" or "unsubscribe"
	LeadID uuid.UUID `json:"lead_id"`
}

// Client is one authenticated websocket connection.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	user  *domain.User
	leads ports.LeadService
	log   zerolog.Logger
	send  chan []byte
}

// NewClient registers the connection with the hub and joins the caller's
// user and role rooms.
func NewClient(hub *Hub, conn *websocket.Conn, user *domain.User, leads ports.LeadService, log zerolog.Logger) *Client {
	c := &Client{
		hub:   hub,
		conn:  conn,
		user:  user,
		leads: leads,
		log:   log,
		send:  make(chan []byte, sendBuffer),
	}
	hub.join(c, domain.RoomUser(user.ID))
	hub.join(c, domain.RoomRole(user.Role))
	return c
}

// Run pumps messages until the connection drops or ctx is cancelled.
// It blocks; the caller owns the connection lifetime.
func (c *Client) Run(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	go c.writePump(ctx)
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Str("user_id", c.user.ID.String()).Msg("websocket closed")
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		switch cmd.Action {
		case "subscribe":
			// Joining a lead room requires the lead to be visible to the
			// caller, the same rule as GET /leads/:id.
			if _, err := c.leads.Get(ctx, c.user, cmd.LeadID); err != nil {
				continue
			}
			c.hub.join(c, domain.RoomLead(cmd.LeadID))
		case "unsubscribe":
			c.hub.leave(c, domain.RoomLead(cmd.LeadID))
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
