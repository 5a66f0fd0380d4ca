package usecase

import (
	"context"
	"errors"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	getByIDResult *domain.User
	getByIDErr    error

	getByUsernameResult *domain.User
	getByUsernameErr    error
	getByUsernameLast   string

	updateUsernameErr   error
	updateUsernameCalls int
	updateUsernameLast  string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordHash  string

	confirmErr    error
	confirmCalls  int
	confirmLastID string
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(context.Context, string) (*domain.User, error) {
	if m.getByIDResult != nil {
		copy := *m.getByIDResult
		return &copy, m.getByIDErr
	}
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.getByUsernameLast = username
	if m.getByUsernameResult != nil {
		copy := *m.getByUsernameResult
		return &copy, m.getByUsernameErr
	}
	if m.getByUsernameErr != nil {
		return nil, m.getByUsernameErr
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) UpdateUsername(_ context.Context, _ string, username string) error {
	m.updateUsernameCalls++
	m.updateUsernameLast = username
	return m.updateUsernameErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, _ string, passwordHash string) error {
	m.updatePasswordCalls++
	m.updatePasswordHash = passwordHash
	return m.updatePasswordErr
}

func (m *mockUserRepository) Confirm(_ context.Context, id string) error {
	m.confirmCalls++
	m.confirmLastID = id
	return m.confirmErr
}

type mockSettingsRepository struct {
	createErr       error
	createCalls     int
	createdSettings domain.Settings

	getResult *domain.Settings
	getErr    error

	updateEmailErr   error
	updateEmailCalls int
	updateEmailLast  string

	updateNotifyErr   error
	updateNotifyCalls int
	updateNotifyLast  bool
}

func (m *mockSettingsRepository) Create(_ context.Context, settings domain.Settings) error {
	m.createCalls++
	m.createdSettings = settings
	return m.createErr
}

func (m *mockSettingsRepository) GetByUserID(context.Context, string) (*domain.Settings, error) {
	if m.getResult != nil {
		copy := *m.getResult
		return &copy, m.getErr
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	return nil, repository.ErrNotFound
}

func (m *mockSettingsRepository) UpdateEmail(_ context.Context, _ string, email string) error {
	m.updateEmailCalls++
	m.updateEmailLast = email
	return m.updateEmailErr
}

func (m *mockSettingsRepository) UpdateNotifyComments(_ context.Context, _ string, notify bool) error {
	m.updateNotifyCalls++
	m.updateNotifyLast = notify
	return m.updateNotifyErr
}

type mockActionRepository struct {
	upsertErr    error
	upsertCalls  int
	upserted     domain.Action
	upsertTokens []string

	getByTokenResult *domain.Action
	getByTokenErr    error
	getByTokenLast   string

	deleteErr   error
	deleteCalls int
	deletedLast string
}

func (m *mockActionRepository) Upsert(_ context.Context, action domain.Action) error {
	m.upsertCalls++
	m.upserted = action
	m.upsertTokens = append(m.upsertTokens, action.Token)
	return m.upsertErr
}

func (m *mockActionRepository) GetByToken(_ context.Context, token string) (*domain.Action, error) {
	m.getByTokenLast = token
	if m.getByTokenResult != nil {
		copy := *m.getByTokenResult
		return &copy, m.getByTokenErr
	}
	if m.getByTokenErr != nil {
		return nil, m.getByTokenErr
	}
	return nil, repository.ErrNotFound
}

func (m *mockActionRepository) DeleteByToken(_ context.Context, token string) error {
	m.deleteCalls++
	m.deletedLast = token
	return m.deleteErr
}

type mockSessionStore struct {
	saveErr   error
	saveCalls int
	saved     domain.Session

	getResult *domain.Session
	getErr    error

	deleteErr   error
	deleteCalls int
	deletedLast string
}

func (m *mockSessionStore) Save(_ context.Context, session domain.Session) error {
	m.saveCalls++
	m.saved = session
	return m.saveErr
}

func (m *mockSessionStore) Get(context.Context, string) (*domain.Session, error) {
	if m.getResult != nil {
		copy := *m.getResult
		return &copy, m.getErr
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.deletedLast = id
	return m.deleteErr
}

type mockNotifier struct {
	err         error
	calls       int
	lastTo      string
	lastSubject string
	lastBody    string
}

func (m *mockNotifier) Send(_ context.Context, to, subject, body string) error {
	m.calls++
	m.lastTo = to
	m.lastSubject = subject
	m.lastBody = body
	return m.err
}

type mockEventPublisher struct {
	registeredCalls int
	registered      domain.UserRegisteredEvent
	registeredErr   error

	deferredCalls int
	deferred      domain.ActionDeferredEvent

	redeemedCalls int
	redeemed      domain.ActionRedeemedEvent
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredCalls++
	m.registered = event
	return m.registeredErr
}

func (m *mockEventPublisher) PublishActionDeferred(_ context.Context, event domain.ActionDeferredEvent) error {
	m.deferredCalls++
	m.deferred = event
	return nil
}

func (m *mockEventPublisher) PublishActionRedeemed(_ context.Context, event domain.ActionRedeemedEvent) error {
	m.redeemedCalls++
	m.redeemed = event
	return nil
}

// mockUnitOfWork hands the callback the provided repositories without a real
// transaction. beginErr short-circuits before the callback runs.
type mockUnitOfWork struct {
	users    port.UserRepository
	settings port.SettingsRepository
	actions  port.ActionRepository
	beginErr error
	calls    int
}

func (m *mockUnitOfWork) WithinTx(_ context.Context, fn func(repos port.TxRepositories) error) error {
	m.calls++
	if m.beginErr != nil {
		return m.beginErr
	}
	return fn(port.TxRepositories{
		Users:    m.users,
		Settings: m.settings,
		Actions:  m.actions,
	})
}

type mockImageRepository struct {
	createErr    error
	createCalls  int
	createdImage domain.Image

	deleteErr   error
	deleteCalls int
	deletedID   string

	ownerID  string
	ownerErr error

	feedResult []domain.FeedImage
	feedErr    error
	feedViewer string
	feedLimit  int
	feedOffset int
}

func (m *mockImageRepository) Create(_ context.Context, image domain.Image) error {
	m.createCalls++
	m.createdImage = image
	return m.createErr
}

func (m *mockImageRepository) Delete(_ context.Context, imageID, _ string) error {
	m.deleteCalls++
	m.deletedID = imageID
	return m.deleteErr
}

func (m *mockImageRepository) GetOwnerID(context.Context, string) (string, error) {
	if m.ownerErr != nil {
		return "", m.ownerErr
	}
	if m.ownerID == "" {
		return "", repository.ErrNotFound
	}
	return m.ownerID, nil
}

func (m *mockImageRepository) ListFeed(_ context.Context, viewerID string, limit, offset int) ([]domain.FeedImage, error) {
	m.feedViewer = viewerID
	m.feedLimit = limit
	m.feedOffset = offset
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	return m.feedResult, nil
}

type mockCommentRepository struct {
	createErr      error
	createCalls    int
	createdComment domain.Comment
}

func (m *mockCommentRepository) Create(_ context.Context, comment domain.Comment) error {
	m.createCalls++
	m.createdComment = comment
	return m.createErr
}

type mockLikeRepository struct {
	exists    bool
	existsErr error

	addErr      error
	addCalls    int
	removeErr   error
	removeCalls int
}

func (m *mockLikeRepository) Exists(context.Context, string, string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockLikeRepository) Add(context.Context, string, string) error {
	m.addCalls++
	return m.addErr
}

func (m *mockLikeRepository) Remove(context.Context, string, string) error {
	m.removeCalls++
	return m.removeErr
}

var errBoom = errors.New("boom")
