package models

import "time"

// Session is the server-side record behind a bearer token. The token itself
// is a signed JWT carrying the session ID; a token whose session record is
// gone is dead no matter how valid its signature still is.
type Session struct {
	ID        string
	LoginID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
