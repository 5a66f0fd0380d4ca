package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// SessionStore keeps server-side session records keyed by the opaque
// identifier held in the client cookie.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
