package ports

import (
	"context"

	"pos/internal/core/domain/model/kitchen"
)

// EventPublisher broadcasts kitchen events to connected displays. Delivery is at
// most once; implementations never block on a slow receiver.
type EventPublisher interface {
	Publish(ctx context.Context, event kitchen.Event) error
}
