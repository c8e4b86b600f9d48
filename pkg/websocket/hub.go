package websocket

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Hub manages websocket clients and room broadcasts. All room state is owned by the
// Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Broadcast
	count      chan countReq
	done       chan struct{}
	log        *zap.Logger

	rooms map[string]map[*Client]bool
}

type Broadcast struct {
	Room    string
	Type    string
	Payload any
	At      time.Time
}

type countReq struct {
	room  string
	reply chan int
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Broadcast, 256),
		count:      make(chan countReq),
		done:       make(chan struct{}),
		log:        log,
		rooms:      map[string]map[*Client]bool{},
	}
}

// Run serves the hub until ctx is cancelled. Remaining clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for room := range h.rooms {
			for c := range h.rooms[room] {
				h.removeClient(c)
			}
		}
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = map[*Client]bool{}
			}
			h.rooms[c.Room][c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case b := <-h.broadcast:
			h.broadcastToRoom(b)
		case req := <-h.count:
			req.reply <- len(h.rooms[req.room])
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.closeSend()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues payload for every client of room.
func (h *Hub) Broadcast(room, typ string, payload any) {
	h.BroadcastAt(room, typ, payload, time.Now())
}

func (h *Hub) BroadcastAt(room, typ string, payload any, at time.Time) {
	select {
	case h.broadcast <- Broadcast{Room: room, Type: typ, Payload: payload, At: at}:
	case <-h.done:
	}
}

// ClientCount returns the number of clients in room.
func (h *Hub) ClientCount(room string) int {
	req := countReq{room: room, reply: make(chan int, 1)}
	select {
	case h.count <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) removeClient(c *Client) {
	if c == nil {
		return
	}
	if clients := h.rooms[c.Room]; clients != nil && clients[c] {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.Room)
		}
	}
	c.closeSend()
}

// Encode builds the wire message shared by broadcasts and direct sends.
func Encode(typ string, payload any, at time.Time) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":      typ,
		"payload":   payload,
		"timestamp": at.UTC().Format(time.RFC3339Nano),
	})
}

func (h *Hub) broadcastToRoom(b Broadcast) {
	clients := h.rooms[b.Room]
	if len(clients) == 0 {
		return
	}
	data, err := Encode(b.Type, b.Payload, b.At)
	if err != nil {
		h.log.Error("ws broadcast marshal failed", zap.String("room", b.Room), zap.String("type", b.Type), zap.Error(err))
		return
	}
	for c := range clients {
		if !c.TrySend(data) {
			// Slow or dead client.
			h.removeClient(c)
		}
	}
}
