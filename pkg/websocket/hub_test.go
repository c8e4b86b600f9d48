package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.Done()
	})
	return h, cancel
}

func receive(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var out map[string]any
		if err := json.Unmarshal(msg, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return nil
}

func TestBroadcastReachesRoomOnly(t *testing.T) {
	h, _ := startHub(t)
	a := NewClient(nil, h, "player:1", 1)
	b := NewClient(nil, h, "player:2", 2)
	h.Register(a)
	h.Register(b)
	if n := h.ClientCount("player:1"); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	h.Broadcast("player:1", "smallEventDoNothing", map[string]any{"ok": true})
	msg := receive(t, a)
	if msg["type"] != "smallEventDoNothing" || msg["timestamp"] == "" {
		t.Fatalf("unexpected message %v", msg)
	}
	select {
	case m := <-b.Send:
		t.Fatalf("unexpected message for another room: %s", m)
	default:
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h, _ := startHub(t)
	c := NewClient(nil, h, "player:1", 1)
	h.Register(c)
	h.Unregister(c)
	if n := h.ClientCount("player:1"); n != 0 {
		t.Fatalf("expected empty room, got %d", n)
	}
	if _, ok := <-c.Send; ok {
		t.Fatal("expected send channel to be closed")
	}
	if c.TrySend([]byte("x")) {
		t.Fatal("expected TrySend on a closed client to fail")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h, _ := startHub(t)
	c := NewClient(nil, h, "player:1", 1)
	h.Register(c)
	for i := 0; i < sendBuffer+1; i++ {
		h.Broadcast("player:1", "x", i)
	}
	// Broadcasts are buffered; wait for the hub to work through them.
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount("player:1") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the slow client to be dropped")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubRefSwap(t *testing.T) {
	first := NewHub(nil)
	ref := NewHubRef(first)
	if h, ok := ref.Get(); !ok || h != first {
		t.Fatal("expected the initial hub")
	}
	second := NewHub(nil)
	ref.Set(second)
	if h, _ := ref.Get(); h != second {
		t.Fatal("expected the swapped hub")
	}
}
