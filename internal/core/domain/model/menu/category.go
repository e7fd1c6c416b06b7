package menu

import (
	"encoding/json"
	"strings"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// Category determines quota rules and base pricing of an order line.
type Category string

const (
	Bowl        Category = "bowl"
	Plate       Category = "plate"
	BiggerPlate Category = "bigger-plate"
	ALaCarte    Category = "a-la-carte"
	Appetizer   Category = "appetizer"
	Drink       Category = "drink"
)

// Categories lists every category in menu order.
func Categories() []Category {
	return []Category{Bowl, Plate, BiggerPlate, ALaCarte, Appetizer, Drink}
}

var categoryNames = map[Category]string{
	Bowl:        "Bowl",
	Plate:       "Plate",
	BiggerPlate: "Bigger Plate",
	ALaCarte:    "A La Carte",
	Appetizer:   "Appetizer",
	Drink:       "Drink",
}

// ParseCategory accepts the canonical value as well as the spellings used by
// kiosk and cashier clients ("Bigger Plate", "a la carte", "alacarte", "drinks").
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "-", "_", "-").Replace(key)
	switch key {
	case "bowl":
		return Bowl, nil
	case "plate":
		return Plate, nil
	case "bigger-plate", "biggerplate":
		return BiggerPlate, nil
	case "a-la-carte", "alacarte", "ala-carte":
		return ALaCarte, nil
	case "appetizer", "appetizers":
		return Appetizer, nil
	case "drink", "drinks":
		return Drink, nil
	}
	return "", errs.NewValueIsOutOfRangeError("category", s, Bowl, Drink)
}

// UnmarshalJSON accepts every spelling ParseCategory does. An empty string is the
// zero Category, the state of a composer before a category is picked.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("category", err)
	}
	if s == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Validate reports an error for values outside the known set.
func (c Category) Validate() error {
	if _, ok := categoryNames[c]; !ok {
		return errs.NewValueIsInvalidError("category")
	}
	return nil
}

// IsMeal reports whether the category is built from sides and entrees.
func (c Category) IsMeal() bool {
	return c == Bowl || c == Plate || c == BiggerPlate
}

// IsSingleton reports whether the category holds exactly one recipe.
func (c Category) IsSingleton() bool {
	return c == ALaCarte || c == Appetizer || c == Drink
}

// DisplayName is the title shown on receipts and kitchen tickets.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Accepts reports whether a recipe of type t may be selected in this category.
func (c Category) Accepts(t RecipeType) bool {
	switch c {
	case ALaCarte:
		return t == TypeEntree || t == TypeSide
	case Appetizer:
		return t == TypeAppetizer
	case Drink:
		return t == TypeDrink
	}
	return false
}

// CategoryConfig holds the quota rules of a category.
type CategoryConfig struct {
	// MaxSideUnits caps the aggregate number of side units.
	MaxSideUnits int

	// MaxUnitsPerSide caps units contributed by one distinct side.
	MaxUnitsPerSide int

	// MaxEntreeUnits caps the aggregate number of entree units.
	MaxEntreeUnits int

	// Singleton categories hold exactly one recipe.
	Singleton bool

	// BasePrice is only set for meals.
	BasePrice kernel.Money
}
