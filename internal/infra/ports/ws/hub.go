// Package ws implements the change-notification subscription: clients
// subscribe to channels and receive updated snapshots whenever a
// transition commits.
package ws

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/commune-hq/commune/internal/application/constant"
	"github.com/commune-hq/commune/internal/application/metric"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/ports/http/dto"
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(payload)
}

// Hub fans channel snapshots out to subscribed connections. Publishing is
// best effort: a failed write drops the payload for that client only.
type Hub struct {
	subscribers map[uuid.UUID]map[*client]struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*client]struct{}),
	}
}

// Subscribe registers conn for a channel's snapshots and returns the
// matching unsubscribe func.
func (h *Hub) Subscribe(channelID uuid.UUID, conn *websocket.Conn) func() {
	c := &client{conn: conn}

	h.mu.Lock()
	if h.subscribers[channelID] == nil {
		h.subscribers[channelID] = make(map[*client]struct{})
	}
	h.subscribers[channelID][c] = struct{}{}
	h.mu.Unlock()

	metric.IncrementWSActiveConnections()

	return func() {
		h.mu.Lock()
		delete(h.subscribers[channelID], c)
		if len(h.subscribers[channelID]) == 0 {
			delete(h.subscribers, channelID)
		}
		h.mu.Unlock()

		metric.DecrementWSActiveConnections()
	}
}

// PublishChannel sends the snapshot to every subscriber of the channel.
func (h *Hub) PublishChannel(channel *models.Channel) {
	payload := dto.NewChannelResponseFromModel(channel)

	h.mu.RLock()
	clients := make([]*client, 0, len(h.subscribers[channel.ID]))
	for c := range h.subscribers[channel.ID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(payload); err != nil {
			slog.Error(
				"write channel snapshot to websocket",
				slog.Any(constant.Error, err),
				slog.Any(constant.ChannelID, channel.ID),
			)
		}
	}
}
