package menu

import (
	"encoding/json"
	"strings"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

// RecipeType classifies a recipe for quota purposes.
type RecipeType string

const (
	TypeSide      RecipeType = "Side"
	TypeEntree    RecipeType = "Entree"
	TypeAppetizer RecipeType = "Appetizer"
	TypeDrink     RecipeType = "Drink"
	TypeOther     RecipeType = "Other"
)

// ParseRecipeType is case-insensitive. Unknown names map to TypeOther.
func ParseRecipeType(s string) RecipeType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "side":
		return TypeSide
	case "entree":
		return TypeEntree
	case "appetizer":
		return TypeAppetizer
	case "drink":
		return TypeDrink
	}
	return TypeOther
}

// UnmarshalJSON normalizes the type name.
func (t *RecipeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("recipe type", err)
	}
	*t = ParseRecipeType(s)
	return nil
}

// Size is the portion size of a singleton item.
type Size string

const (
	Small  Size = "S"
	Medium Size = "M"
	Large  Size = "L"
)

// DefaultSize is used when a singleton is selected without a size.
const DefaultSize = Medium

// ParseSize accepts "S"/"M"/"L" and the spelled-out names.
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "small":
		return Small, nil
	case "m", "medium":
		return Medium, nil
	case "l", "large":
		return Large, nil
	}
	return "", errs.NewValueIsOutOfRangeError("size", s, Small, Large)
}

// SizeOrDefault dereferences size, falling back to DefaultSize.
func SizeOrDefault(size *Size) Size {
	if size == nil || *size == "" {
		return DefaultSize
	}
	return *size
}

// Recipe is one priced unit inside a selection or an order line.
//
// Recipes are values; the With* methods return modified copies so a recipe already
// placed in a line is never changed through another reference.
type Recipe struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Type  RecipeType   `json:"type"`
	Size  *Size        `json:"size,omitempty"`
	Price kernel.Money `json:"price"`
	Half  bool         `json:"half,omitempty"`
}

// WithSize returns a copy carrying size. A nil size clears it.
func (r Recipe) WithSize(size *Size) Recipe {
	if size != nil {
		s := *size
		size = &s
	}
	r.Size = size
	return r
}

// WithPrice returns a copy carrying price.
func (r Recipe) WithPrice(price kernel.Money) Recipe {
	r.Price = price
	return r
}

// WithHalf returns a copy with the half-portion flag set to half.
func (r Recipe) WithHalf(half bool) Recipe {
	r.Half = half
	return r
}

// Clone deep-copies the recipe.
func (r Recipe) Clone() Recipe {
	return r.WithSize(r.Size)
}

// CloneRecipes deep-copies a recipe list. A nil list stays nil.
func CloneRecipes(recipes []Recipe) []Recipe {
	if recipes == nil {
		return nil
	}
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}
