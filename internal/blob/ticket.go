package blob

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const ticketPrefix = "drop"

var ErrMalformedTicket = errors.New("malformed ticket")

// Ticket locates a content-addressed object: which node serves it, where
// that node can be dialed, and what bytes to expect. Consumers treat the
// encoded form as an opaque string.
type Ticket struct {
	NodeID string `json:"node_id"`
	Addr   string `json:"addr"`
	Hash   string `json:"hash"`
	Format string `json:"format"`
}

func (t Ticket) String() string {
	raw, _ := json.Marshal(t)
	return ticketPrefix + base64.RawURLEncoding.EncodeToString(raw)
}

func ParseTicket(s string) (Ticket, error) {
	if !strings.HasPrefix(s, ticketPrefix) {
		return Ticket{}, fmt.Errorf("%w: missing %q prefix", ErrMalformedTicket, ticketPrefix)
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, ticketPrefix))
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrMalformedTicket, err)
	}

	var t Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrMalformedTicket, err)
	}

	if t.Addr == "" || t.Hash == "" {
		return Ticket{}, fmt.Errorf("%w: missing addr or hash", ErrMalformedTicket)
	}
	return t, nil
}
