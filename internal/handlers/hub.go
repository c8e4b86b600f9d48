package handlers

import (
	"strconv"
	"sync"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game/packet"
	ws "github.com/Crownicles/Crownicles-sub006/pkg/websocket"
)

var (
	hubMu sync.RWMutex
	// hubProvider is set by main at startup so HTTP handlers can push packets to sockets.
	hubProvider func() (*ws.Hub, bool)
)

func SetHubProvider(p func() (*ws.Hub, bool)) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hubProvider = p
}

func currentHub() (*ws.Hub, bool) {
	hubMu.RLock()
	p := hubProvider
	hubMu.RUnlock()
	if p == nil {
		return nil, false
	}
	h, ok := p()
	return h, ok && h != nil
}

// PlayerRoom is the websocket room every connection of a player joins.
func PlayerRoom(playerID int64) string {
	return "player:" + strconv.FormatInt(playerID, 10)
}

// broadcastResponse pushes every packet of resp to the player's sockets, in order.
func broadcastResponse(playerID int64, resp *packet.Response, at time.Time) {
	if resp == nil || resp.Len() == 0 {
		return
	}
	hub, ok := currentHub()
	if !ok {
		return
	}
	room := PlayerRoom(playerID)
	for _, p := range resp.Packets() {
		hub.BroadcastAt(room, p.PacketName(), p, at)
	}
}
