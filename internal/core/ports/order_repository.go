// Package ports defines the contracts between the point-of-sale core and its
// adapters: persistence, event broadcast and the remote order service.
package ports

import (
	"context"

	"pos/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for placed orders.
type OrderRepository interface {
	// Add persists a new order with its items and recipes and assigns its id.
	Add(ctx context.Context, aggregate *order.PlacedOrder) error

	// Update persists the status of an existing order.
	Update(ctx context.Context, aggregate *order.PlacedOrder) error

	// Get retrieves an order with all its items. A missing order yields an
	// errs.ObjectNotFoundError.
	Get(ctx context.Context, id int) (*order.PlacedOrder, error)
}
