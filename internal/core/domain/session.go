package domain

import "time"

// Session is the server-side record behind the opaque session identifier the
// client holds in its cookie. CSRFToken is empty until the client fetches its
// profile; state-changing requests are rejected until then.
type Session struct {
	ID        string
	UserID    string
	CSRFToken string
	CreatedAt time.Time
}
