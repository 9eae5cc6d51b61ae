package cart

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-contrib/sessions"
)

const sessionKey = "cart"

// serialization format version; bump when the line schema changes so
// stale cookies degrade to an empty cart instead of breaking.
const formatVersion = 1

type envelope struct {
	Version int    `json:"v"`
	Lines   []Line `json:"lines"`
}

// FromSession loads the cart stored in the shopper's session. Missing,
// malformed or unknown-version payloads yield a fresh empty cart.
func FromSession(s sessions.Session) *Cart {
	raw, ok := s.Get(sessionKey).(string)
	if !ok || raw == "" {
		return &Cart{}
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.Warn("discarding unreadable session cart", "error", err)
		return &Cart{}
	}
	if env.Version != formatVersion {
		slog.Warn("discarding session cart with unknown format version", "version", env.Version)
		return &Cart{}
	}
	return &Cart{Lines: env.Lines}
}

// Save writes the cart back into the session cookie.
func (c *Cart) Save(s sessions.Session) error {
	raw, err := json.Marshal(envelope{Version: formatVersion, Lines: c.Lines})
	if err != nil {
		return err
	}
	s.Set(sessionKey, string(raw))
	return s.Save()
}
