package port

import (
	"context"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// EventPublisher emits account lifecycle events for downstream consumers.
// Publish failures are logged, never surfaced to the request path.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishActionDeferred(ctx context.Context, event domain.ActionDeferredEvent) error
	PublishActionRedeemed(ctx context.Context, event domain.ActionRedeemedEvent) error
}
