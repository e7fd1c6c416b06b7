package order

import (
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
)

// Item is one line of a submitted or placed order.
type Item struct {
	MenuItemName string        `json:"menuItemName"`
	Category     menu.Category `json:"category"`
	Recipes      []menu.Recipe `json:"recipes"`
	Price        kernel.Money  `json:"price"`
}

// Clone deep-copies the item.
func (i Item) Clone() Item {
	i.Recipes = menu.CloneRecipes(i.Recipes)
	return i
}

// Submission is the request that places a draft order. TotalPrice includes tax.
type Submission struct {
	Items      []Item       `json:"orderItems"`
	TotalPrice kernel.Money `json:"totalPrice"`
	EmployeeID *int         `json:"employeeId,omitempty"`
}

// NewSubmission converts a draft into its submission form.
func NewSubmission(o *Order) Submission {
	lines := o.Lines()
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			MenuItemName: l.DisplayName,
			Category:     l.Category,
			Recipes:      l.Recipes,
			Price:        l.Price,
		}
	}
	return Submission{Items: items, TotalPrice: o.Totals().Total}
}

// Receipt is returned to the cashier once an order has been placed.
type Receipt struct {
	OrderID int    `json:"order_id"`
	Lines   []Line `json:"lines"`
	Totals  Totals `json:"totals"`
}
