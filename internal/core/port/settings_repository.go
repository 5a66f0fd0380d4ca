package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// SettingsRepository abstracts persistence for per-user settings.
type SettingsRepository interface {
	Create(ctx context.Context, settings domain.Settings) error
	GetByUserID(ctx context.Context, userID string) (*domain.Settings, error)
	UpdateEmail(ctx context.Context, userID string, email string) error
	UpdateNotifyComments(ctx context.Context, userID string, notify bool) error
}
