package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// UserRepository abstracts persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id string, username string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Confirm(ctx context.Context, id string) error
}
