package commands

import (
	"errors"
	"strings"

	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrStatusIsRequired = errors.New("status is required")
)

// UpdateOrderStatusCommand asks to move a placed order to a new status. The raw
// status is normalized, so "done" and "ready" complete the order and "void" cancels it.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID int
	status  order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status update for orderID.
func NewUpdateOrderStatusCommand(orderID int, status string) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() int {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID int) error {
	if orderID <= 0 {
		return errs.NewValueIsOutOfRangeError("orderId", orderID, 1, nil)
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status string) error {
	if strings.TrimSpace(status) == "" {
		return ErrStatusIsRequired
	}

	c.status = order.NormalizeStatus(status)
	return nil
}
