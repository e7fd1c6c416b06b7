package services

import (
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
)

// PriceCalculator is a domain service that turns a finalized recipe list into the
// price of one order line.
//
// Pricing rules:
//   - Meals (bowl, plate, bigger plate): category base fee plus the surcharge of
//     every entree unit. Sides never add cost.
//   - A la carte: each recipe is priced from the premium size table when its name is
//     in the premium set, else from the standard size table.
//   - Appetizers and drinks: each recipe is priced from its own size table; drinks
//     without size variants cost their single price whatever the size.
//
// Missing table entries resolve to zero. Price never fails and has no side effects,
// so the calculator is safe for concurrent use.
//
// Example usage:
//
//	calc := services.NewPriceCalculator(catalog.PriceBook())
//	price := calc.Price(menu.Bowl, recipes) // $8.30 + surcharges
type PriceCalculator struct {
	book *menu.PriceBook
}

// NewPriceCalculator creates a calculator over book.
func NewPriceCalculator(book *menu.PriceBook) *PriceCalculator {
	return &PriceCalculator{book: book}
}

// Price computes the line price of recipes in category.
//
// Parameters:
//   - category: the category the recipes were selected in
//   - recipes: the finalized recipe list, sizes set for singleton items
//
// Returns:
//   - kernel.Money: the line price rounded to cents
func (c *PriceCalculator) Price(category menu.Category, recipes []menu.Recipe) kernel.Money {
	if c == nil || c.book == nil {
		return kernel.Zero
	}

	if category.IsMeal() {
		total := c.book.MealBase(category)
		for _, r := range recipes {
			if r.Type == menu.TypeEntree {
				total = total.Add(r.Price)
			}
		}
		return total
	}

	total := kernel.Zero
	for _, r := range recipes {
		size := menu.SizeOrDefault(r.Size)
		switch category {
		case menu.ALaCarte:
			total = total.Add(c.book.ALaCarte(r.Name, size))
		case menu.Appetizer:
			total = total.Add(c.book.Appetizer(r.Name, size))
		case menu.Drink:
			total = total.Add(c.book.Drink(r.Name, size))
		}
	}
	return total
}
