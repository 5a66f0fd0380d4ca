package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

const testPassword = "hunter42"

type authFixture struct {
	users    *mockUserRepository
	settings *mockSettingsRepository
	sessions *mockSessionStore
	actions  *mockActionRepository
	notifier *mockNotifier
	events   *mockEventPublisher
	uow      *mockUnitOfWork
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    &mockUserRepository{},
		settings: &mockSettingsRepository{},
		sessions: &mockSessionStore{},
		actions:  &mockActionRepository{},
		notifier: &mockNotifier{},
		events:   &mockEventPublisher{},
	}
	f.uow = &mockUnitOfWork{users: f.users, settings: f.settings, actions: f.actions}
	actionSvc := newActionService(f.actions, f.settings, nil, f.notifier, f.events)
	f.svc = NewAuthService(f.users, f.sessions, f.uow, actionSvc, f.events, zap.NewNop())
	return f
}

func TestAuthService_Register_CreatesUnconfirmedAccount(t *testing.T) {
	f := newAuthFixture()
	f.settings.getResult = &domain.Settings{UserID: "ignored", Email: "alice@example.com"}

	user, err := f.svc.Register(context.Background(), "alice", "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.IsConfirmed {
		t.Fatalf("expected new account to be unconfirmed")
	}
	if f.users.createCalls != 1 {
		t.Fatalf("expected one user insert, got %d", f.users.createCalls)
	}
	if ok, err := security.VerifyPassword(testPassword, f.users.createdUser.PasswordHash); err != nil || !ok {
		t.Fatalf("expected stored hash to match the password")
	}
	if f.settings.createCalls != 1 || f.settings.createdSettings.Email != "alice@example.com" {
		t.Fatalf("expected settings row with the registration email")
	}
	if !f.settings.createdSettings.NotifyComments {
		t.Fatalf("expected comment notifications on by default")
	}
	if f.actions.upserted.Kind != domain.ActionVerifyAccount {
		t.Fatalf("expected a pending verification action, got %s", f.actions.upserted.Kind)
	}
	if f.notifier.calls != 1 {
		t.Fatalf("expected one verification mail, got %d", f.notifier.calls)
	}
	if f.events.registeredCalls != 1 {
		t.Fatalf("expected one registered event, got %d", f.events.registeredCalls)
	}
	if f.sessions.saveCalls != 0 {
		t.Fatalf("registration must not open a session")
	}
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "alice", "not-an-email", testPassword); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "alice", "alice@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if f.users.createCalls != 0 {
		t.Fatalf("expected no inserts on validation failure, got %d", f.users.createCalls)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	f := newAuthFixture()
	f.users.createErr = repository.ErrDuplicate

	if _, err := f.svc.Register(context.Background(), "alice", "alice@example.com", testPassword); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_NotifierFailureSurfaces(t *testing.T) {
	f := newAuthFixture()
	f.settings.getResult = &domain.Settings{Email: "alice@example.com"}
	f.notifier.err = errBoom

	_, err := f.svc.Register(context.Background(), "alice", "alice@example.com", testPassword)
	if !errors.Is(err, ErrNotifierFailure) {
		t.Fatalf("expected ErrNotifierFailure, got %v", err)
	}

	// Account and pending action are committed; the user retries via login.
	if f.users.createCalls != 1 || f.actions.upsertCalls != 1 {
		t.Fatalf("expected account and action to survive the mail failure")
	}
}

func confirmedUser(t *testing.T, id, username, password string) *domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{ID: id, Username: username, PasswordHash: hash, IsConfirmed: true}
}

func TestAuthService_Register_AccountAndSettingsShareTransaction(t *testing.T) {
	f := newAuthFixture()
	f.settings.createErr = errBoom

	_, err := f.svc.Register(context.Background(), "alice", "alice@example.com", testPassword)
	if err == nil {
		t.Fatalf("expected registration to fail when the settings insert fails")
	}

	if f.uow.calls != 1 {
		t.Fatalf("expected both inserts inside one transaction, got %d tx calls", f.uow.calls)
	}
	if f.notifier.calls != 0 {
		t.Fatalf("no verification mail for an account that did not commit")
	}
	if f.events.registeredCalls != 0 {
		t.Fatalf("no registration event for an account that did not commit")
	}
}

func TestAuthService_Login_OpensSession(t *testing.T) {
	f := newAuthFixture()
	f.users.getByUsernameResult = confirmedUser(t, "u1", "alice", testPassword)

	session, err := f.svc.Login(context.Background(), "alice", testPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if session.UserID != "u1" {
		t.Fatalf("expected session for u1, got %s", session.UserID)
	}
	if len(session.ID) != 64 {
		t.Fatalf("expected opaque 64 character session id, got %d characters", len(session.ID))
	}
	if session.CSRFToken != "" {
		t.Fatalf("expected CSRF token to start empty")
	}
	if f.sessions.saveCalls != 1 {
		t.Fatalf("expected session saved once, got %d", f.sessions.saveCalls)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.users.getByUsernameResult = confirmedUser(t, "u1", "alice", testPassword)

	if _, err := f.svc.Login(context.Background(), "alice", "wrong-one"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if f.sessions.saveCalls != 0 {
		t.Fatalf("expected no session on failed login")
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "nobody", testPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnconfirmedRedefersVerification(t *testing.T) {
	f := newAuthFixture()
	user := confirmedUser(t, "u1", "alice", testPassword)
	user.IsConfirmed = false
	f.users.getByUsernameResult = user
	f.settings.getResult = &domain.Settings{UserID: "u1", Email: "alice@example.com"}

	_, err := f.svc.Login(context.Background(), "alice", testPassword)
	if !errors.Is(err, ErrAccountNotConfirmed) {
		t.Fatalf("expected ErrAccountNotConfirmed, got %v", err)
	}

	if f.actions.upsertCalls != 1 || f.actions.upserted.Kind != domain.ActionVerifyAccount {
		t.Fatalf("expected verification re-deferred with a fresh token")
	}
	if f.notifier.calls != 1 {
		t.Fatalf("expected a new verification mail, got %d", f.notifier.calls)
	}
	if f.sessions.saveCalls != 0 {
		t.Fatalf("expected no session for unconfirmed account")
	}
}

func TestAuthService_RequestPasswordReset_ParksHashInLedger(t *testing.T) {
	f := newAuthFixture()
	f.users.getByUsernameResult = confirmedUser(t, "u1", "alice", "old-password")
	f.settings.getResult = &domain.Settings{UserID: "u1", Email: "alice@example.com"}

	if err := f.svc.RequestPasswordReset(context.Background(), "alice", "fresh-password"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}

	if f.actions.upserted.Kind != domain.ActionResetPassword {
		t.Fatalf("expected RESET_PASSWORD action, got %s", f.actions.upserted.Kind)
	}
	parked := f.actions.upserted.Payload[domain.PayloadPasswordHash]
	if ok, err := security.VerifyPassword("fresh-password", parked); err != nil || !ok {
		t.Fatalf("expected the parked hash to match the replacement password")
	}
	if f.users.updatePasswordCalls != 0 {
		t.Fatalf("expected no immediate password change, got %d", f.users.updatePasswordCalls)
	}
}

func TestAuthService_Redeem_OpensSession(t *testing.T) {
	f := newAuthFixture()
	users := &mockUserRepository{}
	f.actions.getByTokenResult = &domain.Action{UserID: "u1", Kind: domain.ActionVerifyAccount, Token: "tok"}
	uow := &mockUnitOfWork{users: users, settings: f.settings, actions: f.actions}
	actionSvc := newActionService(f.actions, f.settings, uow, f.notifier, nil)
	f.svc = NewAuthService(f.users, f.sessions, uow, actionSvc, nil, zap.NewNop())

	session, err := f.svc.Redeem(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if session.UserID != "u1" {
		t.Fatalf("expected session for u1, got %s", session.UserID)
	}
	if users.confirmCalls != 1 {
		t.Fatalf("expected account confirmed during redemption")
	}
	if f.sessions.saveCalls != 1 {
		t.Fatalf("expected session saved after redemption")
	}
}

func TestAuthService_Logout_IgnoresMissingSession(t *testing.T) {
	f := newAuthFixture()
	f.sessions.deleteErr = repository.ErrNotFound

	if err := f.svc.Logout(context.Background(), "gone"); err != nil {
		t.Fatalf("expected logout to be idempotent, got %v", err)
	}
}
