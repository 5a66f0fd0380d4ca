package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
	closed bool
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error {
	f.closed = true
	return nil
}

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestProducer(t *testing.T, asyncProducer sarama.AsyncProducer) *Producer {
	t.Helper()
	return &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg:      config.KafkaSettings{},
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func TestPublishActionDeferred(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	producer := newTestProducer(t, asyncProducer)

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "camagru",
		Env:  "test",
	}, zaptest.NewLogger(t))

	issuedAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	event := domain.ActionDeferredEvent{
		EventID:  "event-123",
		UserID:   "user-456",
		Kind:     domain.ActionVerifyAccount,
		IssuedAt: issuedAt,
	}

	if err := publisher.PublishActionDeferred(context.Background(), event); err != nil {
		t.Fatalf("PublishActionDeferred returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "camagru.action.deferred" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "camagru.action.deferred" {
			t.Fatalf("unexpected event_type: %v", got)
		}
		if got := envelope["user_id"]; got != event.UserID {
			t.Fatalf("unexpected user_id: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not an object: %T", envelope["payload"])
		}
		if got := payload["kind"]; got != string(domain.ActionVerifyAccount) {
			t.Fatalf("unexpected kind: %v", got)
		}

		metadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("metadata not an object: %T", envelope["metadata"])
		}
		if got := metadata["service"]; got != "camagru" {
			t.Fatalf("unexpected service: %v", got)
		}
	default:
		t.Fatalf("no message reached the producer")
	}
}

func TestPublishUserRegistered_MasksEmail(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	producer := newTestProducer(t, asyncProducer)
	publisher := NewEventPublisher(producer, config.AppSettings{Name: "camagru", Env: "test"}, zaptest.NewLogger(t))

	event := domain.UserRegisteredEvent{
		UserID:       "user-456",
		Username:     "alice",
		Email:        "alice@example.com",
		RegisteredAt: time.Now().UTC(),
	}
	if err := publisher.PublishUserRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishUserRegistered returned error: %v", err)
	}

	msg := <-asyncProducer.input
	bytes, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("Value.Encode returned error: %v", err)
	}

	var envelope struct {
		Payload struct {
			Email string `json:"email"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(bytes, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	if envelope.Payload.Email == event.Email {
		t.Fatalf("raw email address leaked into the event payload")
	}
}

func TestProducer_CloseStopsErrorHandler(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	producer := newTestProducer(t, asyncProducer)

	handlerDone := make(chan struct{})
	go func() {
		producer.handleErrors()
		close(handlerDone)
	}()

	if err := producer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !asyncProducer.closed {
		t.Fatalf("expected the underlying producer to be closed")
	}

	select {
	case <-handlerDone:
	case <-time.After(time.Second):
		t.Fatalf("error handler goroutine did not stop on Close")
	}
}
