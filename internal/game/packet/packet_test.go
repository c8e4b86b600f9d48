package packet

import (
	"encoding/json"
	"testing"
	"time"
)

func TestResponseKeepsOrderAndSkipsNil(t *testing.T) {
	r := NewResponse()
	r.Add(SmallEventDoNothing{}, nil, SmallEventFindMoney{Amount: 12})
	got := r.Packets()
	if len(got) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(got))
	}
	if got[0].PacketName() != "smallEventDoNothing" || got[1].PacketName() != "smallEventFindMoney" {
		t.Fatalf("unexpected order: %s, %s", got[0].PacketName(), got[1].PacketName())
	}
}

func TestEncodeEnvelope(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b, err := Encode(SmallEventFindMoney{Amount: 40}, now)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	var got struct {
		Type    string `json:"type"`
		Payload struct {
			Amount int64 `json:"amount"`
		} `json:"payload"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "smallEventFindMoney" || got.Payload.Amount != 40 {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if got.Timestamp != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp %q", got.Timestamp)
	}
}
