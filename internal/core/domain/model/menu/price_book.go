package menu

import "pos/internal/core/domain/model/kernel"

// SizeTable maps a portion size to its price.
type SizeTable map[Size]kernel.Money

// PriceBook holds every price the menu knows about. Lookups of unknown names or
// sizes return zero; they never fail.
type PriceBook struct {
	mealBase    map[Category]kernel.Money
	surcharges  map[int]kernel.Money
	standard    SizeTable
	premium     SizeTable
	premiumSet  map[string]struct{}
	appetizers  map[string]SizeTable
	drinks      map[string]SizeTable
	drinkPrices map[string]kernel.Money
	hasSizes    map[string]bool
}

// MealBase returns the base fee of a meal category.
func (b *PriceBook) MealBase(c Category) kernel.Money {
	return b.mealBase[c]
}

// Surcharge returns the extra cost of an entree inside a meal.
func (b *PriceBook) Surcharge(recipeID int) kernel.Money {
	return b.surcharges[recipeID]
}

// IsPremium reports whether name is priced from the premium a-la-carte table.
func (b *PriceBook) IsPremium(name string) bool {
	_, ok := b.premiumSet[name]
	return ok
}

// ALaCarte prices an a-la-carte item.
func (b *PriceBook) ALaCarte(name string, size Size) kernel.Money {
	if b.IsPremium(name) {
		return b.premium[size]
	}
	return b.standard[size]
}

// Appetizer prices an appetizer.
func (b *PriceBook) Appetizer(name string, size Size) kernel.Money {
	return b.appetizers[name][size]
}

// HasSizes reports whether a drink comes in several sizes. Drinks without an
// explicit flag have sizes when they appear in the sized drink table.
func (b *PriceBook) HasSizes(name string) bool {
	if v, ok := b.hasSizes[name]; ok {
		return v
	}
	_, ok := b.drinks[name]
	return ok
}

// Drink prices a drink. Drinks without size variants cost their single price
// whatever size is asked for.
func (b *PriceBook) Drink(name string, size Size) kernel.Money {
	if !b.HasSizes(name) {
		if p, ok := b.drinkPrices[name]; ok {
			return p
		}
		return b.drinks[name][DefaultSize]
	}
	return b.drinks[name][size]
}
