package mission

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// SaveBlob is the decoded memory of a mission slot: an ordered set of small integers
// (class ids, player ids, map ids...). A nil SaveBlob means nothing was stored yet.
type SaveBlob []int

func (b SaveBlob) Contains(v int) bool {
	for _, x := range b {
		if x == v {
			return true
		}
	}
	return false
}

// With returns a blob holding v. The receiver is never modified; when v is already
// present the returned blob has the same contents.
func (b SaveBlob) With(v int) SaveBlob {
	out := make(SaveBlob, 0, len(b)+1)
	out = append(out, b...)
	if b.Contains(v) {
		return out
	}
	return append(out, v)
}

// EncodeSaveBlob serialises a blob for storage as comma separated decimals ("5,7").
// A nil blob encodes to nil.
func EncodeSaveBlob(b SaveBlob) []byte {
	if b == nil {
		return nil
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.Itoa(v)
	}
	return []byte(strings.Join(parts, ","))
}

// DecodeSaveBlob parses stored bytes. Empty input decodes to a nil blob.
func DecodeSaveBlob(raw []byte) (SaveBlob, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	fields := strings.Split(string(raw), ",")
	out := make(SaveBlob, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("decode save blob %q: %w", raw, err)
		}
		out = append(out, v)
	}
	return out, nil
}
