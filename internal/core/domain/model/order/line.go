package order

import (
	"errors"
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"
)

// LineID identifies a line within one cashier session. Ids start at 1 and only
// grow; a removed id is never reused.
type LineID int

// Line is one committed entry of a draft order.
type Line struct {
	ID          LineID        `json:"id"`
	Category    menu.Category `json:"category"`
	DisplayName string        `json:"display_name"`
	Recipes     []menu.Recipe `json:"recipes"`
	Price       kernel.Money  `json:"price"`
}

// NewLine validates and builds a line.
func NewLine(id LineID, category menu.Category, recipes []menu.Recipe, price kernel.Money) (Line, error) {
	var idErr, recipesErr, priceErr error
	if id <= 0 {
		idErr = errs.NewValueIsOutOfRangeError("lineId", id, 1, nil)
	}
	if len(recipes) == 0 {
		recipesErr = errs.NewValueIsRequiredError("recipes")
	}
	if price.IsNegative() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	if err := errors.Join(idErr, category.Validate(), recipesErr, priceErr); err != nil {
		return Line{}, err
	}
	return Line{
		ID:          id,
		Category:    category,
		DisplayName: DisplayName(category, recipes),
		Recipes:     menu.CloneRecipes(recipes),
		Price:       price,
	}, nil
}

// DisplayName names a line: the category for meals, the item for singletons.
func DisplayName(category menu.Category, recipes []menu.Recipe) string {
	if category.IsSingleton() && len(recipes) == 1 {
		return recipes[0].Name
	}
	return category.DisplayName()
}

// Clone deep-copies the line.
func (l Line) Clone() Line {
	l.Recipes = menu.CloneRecipes(l.Recipes)
	return l
}

// Snapshot is the last known-good copy of a line's recipes and price.
type Snapshot struct {
	recipes []menu.Recipe
	price   kernel.Money
}

// TakeSnapshot copies the recipes and price of l.
func TakeSnapshot(l Line) Snapshot {
	return Snapshot{recipes: menu.CloneRecipes(l.Recipes), price: l.Price}
}

// Recipes returns a copy of the captured recipes.
func (s Snapshot) Recipes() []menu.Recipe {
	return menu.CloneRecipes(s.recipes)
}

// Price returns the captured price.
func (s Snapshot) Price() kernel.Money {
	return s.price
}
