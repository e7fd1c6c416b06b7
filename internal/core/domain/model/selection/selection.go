// Package selection implements the working state of a cashier while composing one
// order line: which sides, entrees or singleton item are currently picked, and the
// quota rules that govern them.
package selection

import "pos/internal/core/domain/model/menu"

// Selection is the transient working state of one category view.
type Selection struct {
	Sides     []menu.Recipe `json:"sides"`
	Entrees   []menu.Recipe `json:"entrees"`
	Singleton *menu.Recipe  `json:"singleton,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Sides) == 0 && len(s.Entrees) == 0 && s.Singleton == nil
}

// Recipes flattens the selection into sides, then entrees, then the singleton.
// The returned recipes are copies.
func (s Selection) Recipes() []menu.Recipe {
	out := make([]menu.Recipe, 0, len(s.Sides)+len(s.Entrees)+1)
	for _, r := range s.Sides {
		out = append(out, r.Clone())
	}
	for _, r := range s.Entrees {
		out = append(out, r.Clone())
	}
	if s.Singleton != nil {
		out = append(out, s.Singleton.Clone())
	}
	return out
}

// Clone deep-copies the selection.
func (s Selection) Clone() Selection {
	c := Selection{
		Sides:   menu.CloneRecipes(s.Sides),
		Entrees: menu.CloneRecipes(s.Entrees),
	}
	if s.Singleton != nil {
		r := s.Singleton.Clone()
		c.Singleton = &r
	}
	return c
}

// SideUnits counts units of side id.
func (s Selection) SideUnits(id int) int {
	return countUnits(s.Sides, id)
}

// EntreeUnits counts units of entree id.
func (s Selection) EntreeUnits(id int) int {
	return countUnits(s.Entrees, id)
}

func countUnits(recipes []menu.Recipe, id int) int {
	n := 0
	for _, r := range recipes {
		if r.ID == id {
			n++
		}
	}
	return n
}

// removeLastUnit drops the last unit of id. ok is false when id is absent.
func removeLastUnit(recipes []menu.Recipe, id int) ([]menu.Recipe, bool) {
	for i := len(recipes) - 1; i >= 0; i-- {
		if recipes[i].ID == id {
			return append(recipes[:i:i], recipes[i+1:]...), true
		}
	}
	return recipes, false
}

// flagHalves marks every side as a half portion once the side quota is filled
// by more than one unit, and clears the flag otherwise.
func flagHalves(sides []menu.Recipe, maxUnits int) []menu.Recipe {
	half := len(sides) > 1 && len(sides) >= maxUnits
	for i := range sides {
		sides[i] = sides[i].WithHalf(half)
	}
	return sides
}
