package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the username or password did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountNotConfirmed indicates a credential match on an account whose
	// verification action is still pending.
	ErrAccountNotConfirmed = errors.New("account pending verification")
	// ErrUsernameTaken indicates the requested username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrWeakPassword indicates the password is shorter than the minimum.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", security.MinPasswordLength)
	// ErrInvalidEmail indicates the supplied email address failed parsing.
	ErrInvalidEmail = errors.New("invalid email address")
)

// AuthService handles registration, credential login, and session lifecycle.
type AuthService struct {
	users    port.UserRepository
	sessions port.SessionStore
	uow      port.UnitOfWork
	actions  *ActionService
	events   port.EventPublisher
	log      *zap.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(
	users port.UserRepository,
	sessions port.SessionStore,
	uow port.UnitOfWork,
	actions *ActionService,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		uow:      uow,
		actions:  actions,
		events:   events,
		log:      log,
	}
}

// Register creates an unconfirmed account and defers its verification action.
// The account and its pending action survive a mail delivery failure; the
// user unblocks themselves by attempting to log in, which re-sends the link.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("username is required")
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < security.MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		IsConfirmed:  false,
		RegisteredAt: now,
	}

	settings := domain.Settings{
		UserID:         user.ID,
		Email:          email,
		NotifyComments: true,
	}

	// Account and settings commit together; a failed settings insert must
	// not leave a user row squatting on the username.
	err = s.uow.WithinTx(ctx, func(repos port.TxRepositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		return repos.Settings.Create(ctx, settings)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create account: %w", err)
	}

	s.publishRegistered(ctx, user, email)

	if err := s.actions.Defer(ctx, user.ID, domain.ActionVerifyAccount, nil); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Login verifies credentials and opens a session. A correct password on an
// unconfirmed account does not log in; it re-defers the verification action
// so a lost or stale link is replaced with a fresh one.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, fmt.Errorf("load user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return domain.Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.Session{}, ErrInvalidCredentials
	}

	if !user.IsConfirmed {
		if err := s.actions.Defer(ctx, user.ID, domain.ActionVerifyAccount, nil); err != nil {
			if errors.Is(err, ErrNotifierFailure) {
				return domain.Session{}, err
			}
			return domain.Session{}, fmt.Errorf("re-defer verification: %w", err)
		}
		return domain.Session{}, ErrAccountNotConfirmed
	}

	return s.OpenSession(ctx, user.ID)
}

// RequestPasswordReset defers a password reset carrying the replacement's
// hash. Nothing changes on the account until the emailed link is redeemed.
// The plaintext replacement is never stored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < security.MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("load user: %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	payload := map[string]string{domain.PayloadPasswordHash: hash}
	return s.actions.Defer(ctx, user.ID, domain.ActionResetPassword, payload)
}

// Redeem consumes a confirmation token and opens a session for the acting
// user, so following the emailed link lands the user in an authenticated
// state.
func (s *AuthService) Redeem(ctx context.Context, token string) (domain.Session, error) {
	userID, err := s.actions.Redeem(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}
	return s.OpenSession(ctx, userID)
}

// Logout discards the server-side session record. Idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// OpenSession mints a fresh opaque session for the user. The CSRF token is
// left empty; it is issued on the first profile fetch.
func (s *AuthService) OpenSession(ctx context.Context, userID string) (domain.Session, error) {
	id, err := security.GenerateToken()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	session := domain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

func (s *AuthService) publishRegistered(ctx context.Context, user domain.User, email string) {
	if s.events == nil {
		return
	}
	event := domain.UserRegisteredEvent{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        email,
		RegisteredAt: user.RegisteredAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("publish user registered event failed", zap.Error(err))
	}
}
