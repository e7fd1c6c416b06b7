package ports

import (
	"context"

	"pos/internal/core/domain/model/order"
)

// OrderGateway places a composed order with the order service in one request and
// returns the new order id. It never retries.
type OrderGateway interface {
	CreateOrder(ctx context.Context, submission order.Submission) (int, error)
}

// StatusUpdater asks the kitchen API to change the status of an order and returns
// the status it confirmed.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int, status order.Status) (order.Status, error)
}

// SnapshotFetcher downloads the bootstrap payload of recent orders.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) ([]byte, error)
}
