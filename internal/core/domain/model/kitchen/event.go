package kitchen

import (
	"encoding/json"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// EventKind distinguishes the messages sent on the order channel.
type EventKind int

const (
	OrderCreatedEvent EventKind = iota + 1
	LowStockEvent
	StatusChangedEvent
)

func (k EventKind) String() string {
	switch k {
	case OrderCreatedEvent:
		return "order_created"
	case LowStockEvent:
		return "low_stock"
	case StatusChangedEvent:
		return "status_changed"
	}
	return "unknown"
}

// Event is a message broadcast to kitchen displays. The JSON shape of each kind is
// distinct, so receivers tell them apart without a type field.
type Event interface {
	Kind() EventKind
}

// OrderCreated announces a newly placed order.
type OrderCreated struct {
	OrderID int            `json:"order_id"`
	Items   []DisplayGroup `json:"items"`
	Status  string         `json:"status"`
	Total   kernel.Money   `json:"total"`
}

func (OrderCreated) Kind() EventKind { return OrderCreatedEvent }

// NewOrderCreated builds the event of a ticket.
func NewOrderCreated(o Order) OrderCreated {
	items := o.Clone().Groups
	if items == nil {
		items = []DisplayGroup{}
	}
	return OrderCreated{OrderID: o.ID, Items: items, Status: o.Status.String(), Total: o.Total}
}

// LowStock lists inventory items at or below their minimum stock.
type LowStock struct {
	Items []string `json:"low_stock_items"`
}

func (LowStock) Kind() EventKind { return LowStockEvent }

// StatusChanged announces a status update made from one display to the others.
type StatusChanged struct {
	OrderID int    `json:"order_id"`
	Status  string `json:"status"`
}

func (StatusChanged) Kind() EventKind { return StatusChangedEvent }

// ParseEvent decodes a channel message by its shape:
//   - low_stock_items present: LowStock
//   - order_id (or id) with items: OrderCreated
//   - order_id (or id) with status only: StatusChanged
func ParseEvent(data []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("event", err)
	}

	if raw, ok := fields["low_stock_items"]; ok {
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("low_stock_items", err)
		}
		return LowStock{Items: items}, nil
	}

	if _, ok := fields["items"]; ok {
		o, ok := parseEntry(data)
		if !ok {
			return nil, errs.NewValueIsInvalidError("order event")
		}
		return NewOrderCreated(o), nil
	}

	id, ok := entryID(fields)
	if !ok {
		return nil, errs.NewValueIsRequiredError("order_id")
	}
	var status string
	if raw, ok := fields["status"]; ok {
		_ = json.Unmarshal(raw, &status)
	}
	if status == "" {
		return nil, errs.NewValueIsRequiredError("status")
	}
	return StatusChanged{OrderID: id, Status: status}, nil
}
