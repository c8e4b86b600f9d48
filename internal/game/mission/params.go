package mission

import (
	"encoding/json"
	"math"
)

// Params are the event parameters a mission is matched against, e.g. {"rarity": 3}.
// Values usually come from decoded JSON, so numbers may arrive as float64 or json.Number.
type Params map[string]any

// Int returns the integer stored under key. ok is false when the key is missing or
// the value is not an integral number.
func (p Params) Int(key string) (int, bool) {
	v, found := p[key]
	if !found || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func (p Params) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

func (p Params) Bool(key string) (bool, bool) {
	b, ok := p[key].(bool)
	return b, ok
}
