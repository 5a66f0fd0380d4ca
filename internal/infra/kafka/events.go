package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if requestID, ok := ctx.Value(logger.RequestIDKey{}).(string); ok && requestID != "" {
		metadata["request_id"] = requestID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes camagru.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Username:     event.Username,
		Email:        logger.MaskEmail(event.Email),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "camagru.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishActionDeferred publishes camagru.action.deferred events.
func (p *EventPublisher) PublishActionDeferred(ctx context.Context, event domain.ActionDeferredEvent) error {
	payload := struct {
		UserID   string    `json:"user_id"`
		Kind     string    `json:"kind"`
		IssuedAt time.Time `json:"issued_at"`
	}{
		UserID:   event.UserID,
		Kind:     string(event.Kind),
		IssuedAt: event.IssuedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "camagru.action.deferred", event.UserID, event.IssuedAt, payload)
}

// PublishActionRedeemed publishes camagru.action.redeemed events.
func (p *EventPublisher) PublishActionRedeemed(ctx context.Context, event domain.ActionRedeemedEvent) error {
	payload := struct {
		UserID     string    `json:"user_id"`
		Kind       string    `json:"kind"`
		RedeemedAt time.Time `json:"redeemed_at"`
	}{
		UserID:     event.UserID,
		Kind:       string(event.Kind),
		RedeemedAt: event.RedeemedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "camagru.action.redeemed", event.UserID, event.RedeemedAt, payload)
}
