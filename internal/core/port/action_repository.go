package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// ActionRepository is the durable ledger of pending confirmation actions.
type ActionRepository interface {
	// Upsert writes the (user, kind) row in a single atomic statement,
	// overwriting token and payload when a row already exists. The backing
	// store's uniqueness constraint on (user_id, kind) serializes concurrent
	// writers; whichever write commits last holds the only redeemable token.
	Upsert(ctx context.Context, action domain.Action) error
	// GetByToken resolves a raw token to its pending action via exact,
	// indexed lookup.
	GetByToken(ctx context.Context, token string) (*domain.Action, error)
	// DeleteByToken removes the row holding the token. Idempotent.
	DeleteByToken(ctx context.Context, token string) error
}
