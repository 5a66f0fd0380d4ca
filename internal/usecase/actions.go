package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

var (
	// ErrInvalidToken indicates the presented token matches no pending action.
	// Expired in-place tokens and already redeemed tokens are indistinguishable
	// from tokens that never existed.
	ErrInvalidToken = errors.New("invalid or already redeemed token")
	// ErrNotifierFailure indicates the confirmation email could not be handed
	// to the mail provider. The pending action stays in the ledger; requesting
	// the same action again mints a fresh token and retries delivery.
	ErrNotifierFailure = errors.New("confirmation email delivery failed")
	// ErrUnknownActionKind indicates a ledger row carries a kind this build
	// does not understand.
	ErrUnknownActionKind = errors.New("unknown action kind")
)

// ActionService owns the deferred-action ledger: it issues single-use
// confirmation tokens, mails them out, and atomically redeems them.
type ActionService struct {
	actions   port.ActionRepository
	settings  port.SettingsRepository
	uow       port.UnitOfWork
	notifier  port.Notifier
	events    port.EventPublisher
	publicURL string
	log       *zap.Logger
}

// NewActionService constructs the action orchestrator. publicURL is the
// externally reachable base used to build confirmation links.
func NewActionService(
	actions port.ActionRepository,
	settings port.SettingsRepository,
	uow port.UnitOfWork,
	notifier port.Notifier,
	events port.EventPublisher,
	publicURL string,
	log *zap.Logger,
) *ActionService {
	return &ActionService{
		actions:   actions,
		settings:  settings,
		uow:       uow,
		notifier:  notifier,
		events:    events,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// Defer records a pending action for the user and mails its confirmation
// link. An existing pending action of the same kind is overwritten, so the
// previously mailed token stops working the moment the new row commits. The
// ledger write is kept even when delivery fails; callers report the failure
// and the user simply requests the action again.
func (s *ActionService) Defer(ctx context.Context, userID string, kind domain.ActionKind, payload map[string]string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownActionKind, kind)
	}

	token, err := security.GenerateToken()
	if err != nil {
		return fmt.Errorf("generate action token: %w", err)
	}

	action := domain.Action{
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
		Token:   token,
	}

	if err := s.actions.Upsert(ctx, action); err != nil {
		return fmt.Errorf("record pending action: %w", err)
	}

	recipient, err := s.recipient(ctx, action)
	if err != nil {
		return err
	}

	subject, body := s.composeMail(action.Kind, token)
	if err := s.notifier.Send(ctx, recipient, subject, body); err != nil {
		s.log.Warn("confirmation mail delivery failed",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrNotifierFailure, err)
	}

	s.publishDeferred(ctx, userID, kind)
	return nil
}

// Redeem consumes the token: it resolves the pending action, applies its
// effect, and deletes the ledger row in one transaction. A second redemption
// of the same token fails with ErrInvalidToken no matter how it interleaves
// with the first. Returns the acting user's id so the caller can open an
// authenticated session.
func (s *ActionService) Redeem(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	var redeemed domain.Action
	err := s.uow.WithinTx(ctx, func(repos port.TxRepositories) error {
		action, err := repos.Actions.GetByToken(ctx, token)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidToken
			}
			return fmt.Errorf("resolve token: %w", err)
		}

		if err := s.apply(ctx, repos, *action); err != nil {
			return err
		}

		// Delete inside the same transaction. A concurrent redeemer that
		// lost the race observes zero deleted rows and aborts.
		if err := repos.Actions.DeleteByToken(ctx, token); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidToken
			}
			return fmt.Errorf("consume token: %w", err)
		}

		redeemed = *action
		return nil
	})
	if err != nil {
		return "", err
	}

	s.publishRedeemed(ctx, redeemed.UserID, redeemed.Kind)
	return redeemed.UserID, nil
}

// apply performs the state transition the action was deferring.
func (s *ActionService) apply(ctx context.Context, repos port.TxRepositories, action domain.Action) error {
	switch action.Kind {
	case domain.ActionVerifyAccount:
		return repos.Users.Confirm(ctx, action.UserID)
	case domain.ActionResetPassword:
		hash, ok := action.Payload[domain.PayloadPasswordHash]
		if !ok {
			return fmt.Errorf("reset action %s has no password hash", action.UserID)
		}
		if err := repos.Users.UpdatePassword(ctx, action.UserID, hash); err != nil {
			return err
		}
		// Redeeming a reset link also proves mailbox ownership.
		return repos.Users.Confirm(ctx, action.UserID)
	case domain.ActionChangeEmail:
		newEmail, ok := action.Payload[domain.PayloadNewEmail]
		if !ok {
			return fmt.Errorf("email change action %s has no address", action.UserID)
		}
		return repos.Settings.UpdateEmail(ctx, action.UserID, newEmail)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownActionKind, action.Kind)
	}
}

// recipient picks the mailbox the confirmation link goes to. Email changes
// are confirmed by the new address; everything else goes to the address on
// file.
func (s *ActionService) recipient(ctx context.Context, action domain.Action) (string, error) {
	if action.Kind == domain.ActionChangeEmail {
		if newEmail := action.Payload[domain.PayloadNewEmail]; newEmail != "" {
			return newEmail, nil
		}
	}

	settings, err := s.settings.GetByUserID(ctx, action.UserID)
	if err != nil {
		return "", fmt.Errorf("resolve recipient: %w", err)
	}
	return settings.Email, nil
}

func (s *ActionService) composeMail(kind domain.ActionKind, token string) (subject, body string) {
	link := fmt.Sprintf("%s/auth/?token=%s", s.publicURL, token)

	switch kind {
	case domain.ActionVerifyAccount:
		subject = "Verify your Camagru account"
		body = fmt.Sprintf("Welcome to Camagru!\n\nOpen the link below to verify your account:\n%s\n\nIf you did not sign up, ignore this message.", link)
	case domain.ActionResetPassword:
		subject = "Confirm your password reset"
		body = fmt.Sprintf("A password reset was requested for your Camagru account.\n\nOpen the link below to apply the new password:\n%s\n\nIf you did not request this, ignore this message and your password stays unchanged.", link)
	case domain.ActionChangeEmail:
		subject = "Confirm your new email address"
		body = fmt.Sprintf("An email change was requested for your Camagru account.\n\nOpen the link below to confirm this address:\n%s\n\nIf you did not request this, ignore this message.", link)
	default:
		subject = "Confirm your Camagru action"
		body = fmt.Sprintf("Open the link below to confirm:\n%s", link)
	}
	return subject, body
}

func (s *ActionService) publishDeferred(ctx context.Context, userID string, kind domain.ActionKind) {
	if s.events == nil {
		return
	}
	event := domain.ActionDeferredEvent{
		UserID:   userID,
		Kind:     kind,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.events.PublishActionDeferred(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("publish action deferred event failed", zap.Error(err))
	}
}

func (s *ActionService) publishRedeemed(ctx context.Context, userID string, kind domain.ActionKind) {
	if s.events == nil {
		return
	}
	event := domain.ActionRedeemedEvent{
		UserID:     userID,
		Kind:       kind,
		RedeemedAt: time.Now().UTC(),
	}
	if err := s.events.PublishActionRedeemed(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("publish action redeemed event failed", zap.Error(err))
	}
}
