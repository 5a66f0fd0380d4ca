package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// Profile bundles the account and its settings for the settings page.
type Profile struct {
	User     domain.User
	Settings domain.Settings
}

// SettingsUpdate carries the optional fields of a settings mutation. Nil
// pointers leave the corresponding field untouched.
type SettingsUpdate struct {
	Username       *string
	Password       *string
	Email          *string
	NotifyComments *bool
}

// SettingsResult reports what an update did. EmailDeferred is set when the
// email field was accepted but parked in the ledger pending confirmation.
type SettingsResult struct {
	EmailDeferred bool
}

// SettingsService reads and mutates the user's profile. Username, password,
// and notification changes apply immediately; email changes go through the
// deferred confirmation flow.
type SettingsService struct {
	users    port.UserRepository
	settings port.SettingsRepository
	actions  *ActionService
	log      *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(users port.UserRepository, settings port.SettingsRepository, actions *ActionService, log *zap.Logger) *SettingsService {
	return &SettingsService{users: users, settings: settings, actions: actions, log: log}
}

// Get returns the account and settings for the user.
func (s *SettingsService) Get(ctx context.Context, userID string) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load user: %w", err)
	}

	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load settings: %w", err)
	}

	return Profile{User: *user, Settings: *settings}, nil
}

// Update applies the requested changes. Every field is validated before
// anything is written, so a rejected request leaves the profile untouched.
// Immediate fields are written first; an email change is deferred last so
// its confirmation mail reflects the final state of the rest of the profile.
func (s *SettingsService) Update(ctx context.Context, userID string, update SettingsUpdate) (SettingsResult, error) {
	var result SettingsResult

	var username string
	if update.Username != nil {
		username = strings.TrimSpace(*update.Username)
		if username == "" {
			return result, fmt.Errorf("username is required")
		}
	}

	if update.Password != nil && len(*update.Password) < security.MinPasswordLength {
		return result, ErrWeakPassword
	}

	var newEmail string
	if update.Email != nil {
		newEmail = strings.TrimSpace(*update.Email)
		if _, err := mail.ParseAddress(newEmail); err != nil {
			return result, ErrInvalidEmail
		}
	}

	if update.Username != nil {
		if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return result, ErrUsernameTaken
			}
			return result, fmt.Errorf("update username: %w", err)
		}
	}

	if update.Password != nil {
		hash, err := security.HashPassword(*update.Password)
		if err != nil {
			return result, fmt.Errorf("hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
			return result, fmt.Errorf("update password: %w", err)
		}
	}

	if update.NotifyComments != nil {
		if err := s.settings.UpdateNotifyComments(ctx, userID, *update.NotifyComments); err != nil {
			return result, fmt.Errorf("update notification preference: %w", err)
		}
	}

	if update.Email != nil {
		current, err := s.settings.GetByUserID(ctx, userID)
		if err != nil {
			return result, fmt.Errorf("load settings: %w", err)
		}

		// No-op changes skip the ledger entirely.
		if newEmail != current.Email {
			payload := map[string]string{domain.PayloadNewEmail: newEmail}
			if err := s.actions.Defer(ctx, userID, domain.ActionChangeEmail, payload); err != nil {
				return result, err
			}
			result.EmailDeferred = true
		}
	}

	return result, nil
}
