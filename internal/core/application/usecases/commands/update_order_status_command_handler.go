package commands

import (
	"context"
	"log/slog"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
)

// UpdateOrderStatusCommandHandler persists kitchen status changes and tells the
// other displays about them.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "update_order_status_handler"),
	}
}

// Handle stores the new status and returns it. An unknown order yields an
// errs.ObjectNotFoundError from the repository.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	placed, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	if err = placed.UpdateStatus(cmd.Status()); err != nil {
		return order.Unknown, err
	}

	if err = orderRepo.Update(ctx, placed); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	event := kitchen.StatusChanged{OrderID: placed.ID(), Status: placed.Status().String()}
	if err = h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to broadcast status change",
			"order_id", placed.ID(),
			"error", err,
		)
	}

	return placed.Status(), nil
}
