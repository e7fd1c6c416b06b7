package commands

import (
	"errors"
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired  = errors.New("order must contain at least one item")
	ErrTotalIsInvalid    = errors.New("total price must not be negative")
	ErrEmployeeIsInvalid = errors.New("employee id must be greater than 0")
)

// CreateOrderCommand represents a request to place a composed order.
// Carries every line with its recipes and price, and the charged total including tax.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(submission.Items, submission.TotalPrice, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
//	fmt.Printf("Order #%d sent to the kitchen", orderID)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	items      []order.Item
	total      kernel.Money
	employeeID *int

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place an order.
// Validates that there is at least one item, each with recipes, and that the total
// is not negative. Prices are verified by the handler against the menu.
func NewCreateOrderCommand(items []order.Item, total kernel.Money, employeeID *int) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItems(items),
		cmd.setTotal(total),
		cmd.setEmployeeID(employeeID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// CreateOrderCommandFromSubmission builds the command from a submission payload.
func CreateOrderCommandFromSubmission(s order.Submission) (CreateOrderCommand, error) {
	return NewCreateOrderCommand(s.Items, s.TotalPrice, s.EmployeeID)
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Items returns copies of the submitted lines.
func (c CreateOrderCommand) Items() []order.Item {
	out := make([]order.Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Total returns the charged total including tax.
func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

// EmployeeID returns the cashier id, nil for kiosk orders.
func (c CreateOrderCommand) EmployeeID() *int {
	return c.employeeID
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for i, it := range items {
		if len(it.Recipes) == 0 {
			return errs.NewValueIsRequiredErrorWithCause("recipes", fmt.Errorf("item %d has no recipes", i))
		}
	}

	c.items = make([]order.Item, len(items))
	for i, it := range items {
		c.items[i] = it.Clone()
	}
	return nil
}

func (c *CreateOrderCommand) setTotal(total kernel.Money) error {
	if total.IsNegative() {
		return ErrTotalIsInvalid
	}

	c.total = total
	return nil
}

func (c *CreateOrderCommand) setEmployeeID(employeeID *int) error {
	if employeeID == nil {
		return nil
	}
	if *employeeID <= 0 {
		return ErrEmployeeIsInvalid
	}

	id := *employeeID
	c.employeeID = &id
	return nil
}
