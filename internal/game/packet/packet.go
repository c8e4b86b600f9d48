// Package packet holds the response packets produced by game behaviours and the
// accumulator they are appended to. Transport layers turn packets into wire messages.
package packet

import (
	"encoding/json"
	"fmt"
	"time"
)

// Packet is a structured response sent back to the player's client.
type Packet interface {
	PacketName() string
}

// Response accumulates the packets produced while handling one request.
// It is not safe for concurrent use.
type Response struct {
	packets []Packet
}

func NewResponse() *Response {
	return &Response{}
}

// Add appends packets in order. Nil packets are ignored.
func (r *Response) Add(ps ...Packet) {
	for _, p := range ps {
		if p != nil {
			r.packets = append(r.packets, p)
		}
	}
}

// Packets returns a copy of the accumulated packets.
func (r *Response) Packets() []Packet {
	return append([]Packet(nil), r.packets...)
}

func (r *Response) Len() int { return len(r.packets) }

// Envelope is the JSON shape packets take on the wire.
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

func Wrap(p Packet, now time.Time) Envelope {
	return Envelope{Type: p.PacketName(), Payload: p, Timestamp: now.UTC().Format(time.RFC3339Nano)}
}

// Encode marshals a packet into its envelope.
func Encode(p Packet, now time.Time) ([]byte, error) {
	b, err := json.Marshal(Wrap(p, now))
	if err != nil {
		return nil, fmt.Errorf("encode packet %s: %w", p.PacketName(), err)
	}
	return b, nil
}

// Envelopes wraps every packet of the response, for JSON API replies.
func (r *Response) Envelopes(now time.Time) []Envelope {
	out := make([]Envelope, 0, len(r.packets))
	for _, p := range r.packets {
		out = append(out, Wrap(p, now))
	}
	return out
}
