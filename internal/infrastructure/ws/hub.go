// Package ws fans mutation events out to connected websocket clients.
// Clients are grouped into rooms (user:<id>, role:<name>, lead:<id>);
// the services decide which rooms each event reaches. Delivery is
// fire-and-forget: there is no acknowledgement and no replay.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// Hub tracks room membership and routes events to clients. One hub runs
// per API instance; instances stay in sync through the shared Redis
// channel they all subscribe to.
type Hub struct {
	log zerolog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Run consumes the Redis event subscription until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, sub *goredis.PubSub) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.Warn().Err(err).Msg("dropping malformed event")
				continue
			}
			h.Broadcast(event)
		}
	}
}

// Broadcast delivers the event to every client in any of its rooms,
// at most once per client. Clients with a full send buffer are skipped.
func (h *Hub) Broadcast(event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast event")
		return
	}

	h.mu.RLock()
	targets := make(map[*Client]struct{})
	for _, room := range event.Rooms {
		for c := range h.rooms[room] {
			targets[c] = struct{}{}
		}
	}
	h.mu.RUnlock()

	for c := range targets {
		select {
		case c.send <- payload:
		default:
			h.log.Warn().Str("user_id", c.user.ID.String()).Msg("slow websocket client, dropping event")
		}
	}
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// remove drops the client from every room it joined.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}
