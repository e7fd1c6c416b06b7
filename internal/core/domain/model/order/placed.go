package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

var (
	// ErrPlacedOrderIsNotConstructed is returned when a PlacedOrder was not created
	// through NewPlacedOrder or RestorePlacedOrder.
	ErrPlacedOrderIsNotConstructed = errors.New("PlacedOrder must be created via NewPlacedOrder constructor")
)

// PlacedOrder is a submitted order as the restaurant stores it. It is the aggregate
// root behind the kitchen queue.
//
// PlacedOrder follows these invariants:
//   - It has at least one item and every item has at least one recipe
//   - The total is not negative
//   - The id is assigned once, by persistence
//   - Status is always Pending, Completed or Cancelled
type PlacedOrder struct {
	// id is the database identifier, zero until persisted
	id int

	// placedAt is when the order was accepted
	placedAt time.Time

	// employeeID is the cashier who rang the order up, nil for kiosk orders
	employeeID *int

	// items are the submitted lines
	items []Item

	// total includes tax
	total kernel.Money

	status Status

	isConstructed bool
}

// NewPlacedOrder creates a pending order.
//
// Parameters:
//   - items: the submitted lines (at least one, each with recipes)
//   - total: the charged total including tax
//   - placedAt: acceptance time
//   - employeeID: optional cashier id
//
// Returns:
//   - *PlacedOrder: the created order, with id zero until persisted
//   - error: joined validation errors
func NewPlacedOrder(items []Item, total kernel.Money, placedAt time.Time, employeeID *int) (*PlacedOrder, error) {
	o := &PlacedOrder{
		placedAt:      placedAt,
		employeeID:    employeeID,
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setItems(items),
		o.setTotal(total),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestorePlacedOrder rebuilds an order read from persistence.
func RestorePlacedOrder(
	id int, placedAt time.Time, employeeID *int, items []Item, total kernel.Money, status Status,
) (*PlacedOrder, error) {
	o := &PlacedOrder{
		placedAt:      placedAt,
		employeeID:    employeeID,
		isConstructed: true,
	}

	if err := errors.Join(
		o.AssignID(id),
		o.setItems(items),
		o.setTotal(total),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *PlacedOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrPlacedOrderIsNotConstructed
	}
	return nil
}

// AssignID records the identifier chosen by persistence. It may only be called once.
func (o *PlacedOrder) AssignID(id int) error {
	if id <= 0 {
		return errs.NewValueIsOutOfRangeError("orderId", id, 1, nil)
	}
	if o.id != 0 && o.id != id {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("already assigned %d", o.id))
	}
	o.id = id
	return nil
}

func (o *PlacedOrder) ID() int {
	return o.id
}

func (o *PlacedOrder) PlacedAt() time.Time {
	return o.placedAt
}

func (o *PlacedOrder) EmployeeID() *int {
	return o.employeeID
}

// Items returns copies of the order items.
func (o *PlacedOrder) Items() []Item {
	out := make([]Item, len(o.items))
	for i, it := range o.items {
		out[i] = it.Clone()
	}
	return out
}

func (o *PlacedOrder) Total() kernel.Money {
	return o.total
}

func (o *PlacedOrder) Status() Status {
	return o.status
}

// RecipeIDs lists the recipe id of every unit in the order, repeats included.
func (o *PlacedOrder) RecipeIDs() []int {
	var ids []int
	for _, it := range o.items {
		for _, r := range it.Recipes {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// UpdateStatus moves the order to status. Setting the current status again is
// allowed so repeated kitchen requests stay idempotent.
func (o *PlacedOrder) UpdateStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *PlacedOrder) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	copied := make([]Item, len(items))
	for i, it := range items {
		if len(it.Recipes) == 0 {
			return errs.NewValueIsRequiredErrorWithCause("recipes", fmt.Errorf("item %d has no recipes", i))
		}
		if err := it.Category.Validate(); err != nil {
			return err
		}
		it.MenuItemName = strings.TrimSpace(it.MenuItemName)
		if it.MenuItemName == "" {
			it.MenuItemName = DisplayName(it.Category, it.Recipes)
		}
		copied[i] = it.Clone()
	}
	o.items = copied
	return nil
}

func (o *PlacedOrder) setTotal(total kernel.Money) error {
	if total.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is negative", total))
	}
	o.total = total
	return nil
}
