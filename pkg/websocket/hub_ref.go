package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// HubRef points at the hub currently serving new connections, so a crashed hub can be
// replaced without restarting the HTTP server.
type HubRef struct {
	v atomic.Pointer[Hub]
}

func NewHubRef(initial *Hub) *HubRef {
	r := &HubRef{}
	r.v.Store(initial)
	return r
}

func (r *HubRef) Get() (*Hub, bool) {
	h := r.v.Load()
	return h, h != nil
}

func (r *HubRef) Set(h *Hub) { r.v.Store(h) }

// Supervise runs the referenced hub and swaps in a fresh one whenever Run panics,
// until ctx is cancelled.
func (r *HubRef) Supervise(ctx context.Context, log *zap.Logger) {
	for {
		hub, _ := r.Get()
		panicked := runRecovered(ctx, hub, log)
		if !panicked || ctx.Err() != nil {
			return
		}
		r.Set(NewHub(log))
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func runRecovered(ctx context.Context, hub *Hub, log *zap.Logger) (panicked bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("websocket hub panicked; replacing it", zap.Any("panic", rec))
			panicked = true
		}
	}()
	hub.Run(ctx)
	return false
}
