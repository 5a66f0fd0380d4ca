package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsConfirmed  bool
	RegisteredAt time.Time
}

// Settings holds the per-user profile preferences stored alongside the account.
// Email changes never land here directly; they are applied only through a
// redeemed CHANGE_EMAIL action, so every stored address was confirmed
// reachable by its owner at the time of change.
type Settings struct {
	UserID         string
	Email          string
	NotifyComments bool
}
