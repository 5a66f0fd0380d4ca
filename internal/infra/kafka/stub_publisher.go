package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs camagru.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         logger.MaskEmail(event.Email),
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("camagru.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishActionDeferred logs camagru.action.deferred events.
func (p *StubPublisher) PublishActionDeferred(_ context.Context, event domain.ActionDeferredEvent) error {
	payload := map[string]any{
		"user_id":   event.UserID,
		"kind":      string(event.Kind),
		"issued_at": event.IssuedAt,
	}
	p.logEvent("camagru.action.deferred", event.UserID, event.IssuedAt, payload)
	return nil
}

// PublishActionRedeemed logs camagru.action.redeemed events.
func (p *StubPublisher) PublishActionRedeemed(_ context.Context, event domain.ActionRedeemedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"kind":        string(event.Kind),
		"redeemed_at": event.RedeemedAt,
	}
	p.logEvent("camagru.action.redeemed", event.UserID, event.RedeemedAt, payload)
	return nil
}
