package domain

import "time"

// UserRegisteredEvent is emitted after a new unconfirmed account is created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
}

// ActionDeferredEvent is emitted whenever a confirmation action is issued or
// re-issued for a user.
type ActionDeferredEvent struct {
	EventID  string
	UserID   string
	Kind     ActionKind
	IssuedAt time.Time
}

// ActionRedeemedEvent is emitted after a token redemption applied its effect
// and consumed the ledger row.
type ActionRedeemedEvent struct {
	EventID    string
	UserID     string
	Kind       ActionKind
	RedeemedAt time.Time
}
