package domain

// ActionKind enumerates the deferred confirmation actions a user can have pending.
type ActionKind string

const (
	ActionVerifyAccount ActionKind = "VERIFY_ACCOUNT"
	ActionResetPassword ActionKind = "RESET_PASSWORD"
	ActionChangeEmail   ActionKind = "CHANGE_EMAIL"
)

// Payload keys carried by deferred actions.
const (
	PayloadPasswordHash = "password_hash"
	PayloadNewEmail     = "new_email"
)

// Action is a pending, token-gated state transition awaiting out-of-band
// confirmation. At most one row exists per (user, kind); issuing a new action
// for the same pair overwrites token and payload in place, permanently
// invalidating the previously mailed token.
type Action struct {
	UserID  string
	Kind    ActionKind
	Payload map[string]string
	Token   string
}

// Valid reports whether the kind is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionVerifyAccount, ActionResetPassword, ActionChangeEmail:
		return true
	}
	return false
}
