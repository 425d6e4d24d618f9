package models

import "time"

// Session grants continued authentication until Expires. The ID is the
// value of the sessionId cookie.
type Session struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LiveAt reports whether the session is still valid at t. A session whose
// expiry equals t is already dead.
func (s *Session) LiveAt(t time.Time) bool {
	return t.Before(s.Expires)
}

// SessionView is a session joined with its owner, as listed by GET /register.
type SessionView struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Expires   time.Time `json:"expires"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
