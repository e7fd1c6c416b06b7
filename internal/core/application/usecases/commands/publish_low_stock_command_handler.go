package commands

import (
	"context"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/ports"
)

// PublishLowStockCommandHandler reads low stock inside a read-only transaction and
// broadcasts it when the list is not empty.
type PublishLowStockCommandHandler struct {
	uowFactory InventoryUoWFactory
	publisher  ports.EventPublisher
}

// NewPublishLowStockCommandHandler creates a handler for low stock scans.
func NewPublishLowStockCommandHandler(
	uowFactory InventoryUoWFactory,
	publisher ports.EventPublisher,
) PublishLowStockCommandHandler {
	return PublishLowStockCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle returns the low stock items it found. Nothing is published for an empty
// list.
func (h *PublishLowStockCommandHandler) Handle(ctx context.Context, cmd PublishLowStockCommand) ([]string, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	items, err := uow.InventoryRepository().LowStock(ctx)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	if err = h.publisher.Publish(ctx, kitchen.LowStock{Items: items}); err != nil {
		return items, err
	}

	return items, nil
}
