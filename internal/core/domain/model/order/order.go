package order

import (
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// TaxRate is the sales tax applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.0825")

// Totals are the derived amounts of an order.
type Totals struct {
	Subtotal kernel.Money `json:"subtotal"`
	Tax      kernel.Money `json:"tax"`
	Total    kernel.Money `json:"total"`
}

// ComputeTotals applies TaxRate to subtotal, rounding the tax half-up to cents.
func ComputeTotals(subtotal kernel.Money) Totals {
	tax := subtotal.MulRate(TaxRate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// Order is the draft a cashier is assembling. The zero value is an empty order.
// It is owned by one interaction session and is not safe for concurrent use.
type Order struct {
	lines []Line
}

// Append adds l at the end.
func (o *Order) Append(l Line) {
	o.lines = append(o.lines, l.Clone())
}

// Remove deletes line id and reports whether it existed.
func (o *Order) Remove(id LineID) bool {
	for i, l := range o.lines {
		if l.ID == id {
			o.lines = append(o.lines[:i:i], o.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Line returns a copy of line id.
func (o *Order) Line(id LineID) (Line, bool) {
	for _, l := range o.lines {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return Line{}, false
}

// Replace swaps the recipes and price of line id in a single step.
func (o *Order) Replace(id LineID, recipes []menu.Recipe, price kernel.Money) error {
	for i, l := range o.lines {
		if l.ID == id {
			o.lines[i].Recipes = menu.CloneRecipes(recipes)
			o.lines[i].Price = price
			o.lines[i].DisplayName = DisplayName(l.Category, recipes)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("lineId", id)
}

// Lines returns copies of all lines in commit order.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	for i, l := range o.lines {
		out[i] = l.Clone()
	}
	return out
}

// Len returns the number of lines.
func (o *Order) Len() int {
	return len(o.lines)
}

// IsEmpty reports whether the order has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.lines) == 0
}

// Subtotal sums the line prices.
func (o *Order) Subtotal() kernel.Money {
	total := kernel.Zero
	for _, l := range o.lines {
		total = total.Add(l.Price)
	}
	return total
}

// Totals derives subtotal, tax and total.
func (o *Order) Totals() Totals {
	return ComputeTotals(o.Subtotal())
}
