package kitchen

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
)

// ParseBootstrap decodes a snapshot array of {order_id|id, items, status}. A
// payload that is not an array yields nil; entries without a usable id are
// skipped.
func ParseBootstrap(data []byte) []Order {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	orders := make([]Order, 0, len(entries))
	for _, raw := range entries {
		if o, ok := parseEntry(raw); ok {
			orders = append(orders, o)
		}
	}
	return orders
}

func parseEntry(data []byte) (Order, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Order{}, false
	}
	id, ok := entryID(fields)
	if !ok {
		return Order{}, false
	}

	o := Order{ID: id, Status: order.Pending}
	if raw, ok := fields["status"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			o.Status = order.NormalizeStatus(s)
		}
	}
	if raw, ok := fields["time"]; ok {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				o.PlacedAt = t
			}
		}
	}
	if raw, ok := fields["total"]; ok {
		var total kernel.Money
		if json.Unmarshal(raw, &total) == nil {
			o.Total = total
		}
	}
	if raw, ok := fields["employee_id"]; ok {
		var emp int
		if json.Unmarshal(raw, &emp) == nil {
			o.EmployeeID = &emp
		}
	}
	if raw, ok := fields["items"]; ok {
		o.Groups = parseItems(raw)
	}
	return o, true
}

// entryID reads order_id, falling back to id. Numbers and numeric strings such
// as "12" or "#12" are accepted.
func entryID(fields map[string]json.RawMessage) (int, bool) {
	for _, key := range []string{"order_id", "id"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var n int
		if json.Unmarshal(raw, &n) == nil && n > 0 {
			return n, true
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#")); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func parseItems(raw json.RawMessage) []DisplayGroup {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	groups := make([]DisplayGroup, 0, len(items))
	for _, item := range items {
		if g, ok := parseItem(item); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// looseUnit is a recipe reference given either as a bare name or as
// {"name": ..., "qty": ...}.
type looseUnit struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
}

func (u *looseUnit) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		u.Qty = 1
		return json.Unmarshal(data, &u.Name)
	}
	type plain looseUnit
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Qty == 0 {
		p.Qty = 1
	}
	*u = looseUnit(p)
	return nil
}

type looseItem struct {
	Category     string        `json:"category"`
	Title        string        `json:"title"`
	Lines        []string      `json:"lines"`
	MenuItemName string        `json:"menuItemName"`
	Recipes      []menu.Recipe `json:"recipes"`
	MealType     string        `json:"meal_type"`
	Entrees      []looseUnit   `json:"entrees"`
	Side         []looseUnit   `json:"side"`
	Sides        []looseUnit   `json:"sides"`
	Name         string        `json:"name"`
	Size         string        `json:"size"`
}

// parseItem accepts, in order: a bare string, an already normalized display group,
// an order item with recipes, a kiosk meal {meal_type, entrees, side(s)} and a
// kiosk singleton {category, name, size}.
func parseItem(raw json.RawMessage) (DisplayGroup, bool) {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		s = strings.TrimSpace(s)
		return DisplayGroup{Title: s}, s != ""
	}

	var it looseItem
	if err := json.Unmarshal(raw, &it); err != nil {
		return DisplayGroup{}, false
	}

	switch {
	case it.Title != "" || len(it.Lines) > 0:
		g := DisplayGroup{Category: it.Category, Title: it.Title, Lines: it.Lines}
		if g.Title == "" {
			g.Title = categoryTitle(it.Category)
		}
		return g, true

	case len(it.Recipes) > 0:
		cat, err := menu.ParseCategory(it.Category)
		if err != nil {
			cat = menu.Category(it.Category)
		}
		return GroupFromItem(order.Item{MenuItemName: it.MenuItemName, Category: cat, Recipes: it.Recipes}), true

	case it.MealType != "" || len(it.Entrees) > 0 || len(it.Side) > 0 || len(it.Sides) > 0:
		g := DisplayGroup{Category: it.MealType, Title: categoryTitle(it.MealType)}
		if cat, err := menu.ParseCategory(it.MealType); err == nil {
			g.Category = string(cat)
		}
		for _, u := range it.Entrees {
			if u.Name != "" {
				g.Lines = append(g.Lines, countedLine(u.Name, int(u.Qty)))
			}
		}
		for _, u := range append(it.Side, it.Sides...) {
			if u.Name != "" {
				g.Lines = append(g.Lines, portionLine(u.Name, u.Qty > 0 && u.Qty < 1))
			}
		}
		return g, true

	case it.Name != "":
		g := DisplayGroup{Category: it.Category, Title: categoryTitle(it.Category)}
		if cat, err := menu.ParseCategory(it.Category); err == nil {
			g.Category = string(cat)
		}
		var size *menu.Size
		if sz, err := menu.ParseSize(it.Size); err == nil {
			size = &sz
		}
		g.Lines = []string{sizedLine(it.Name, size)}
		return g, true
	}
	return DisplayGroup{}, false
}

func categoryTitle(s string) string {
	if cat, err := menu.ParseCategory(s); err == nil {
		return cat.DisplayName()
	}
	if s == "" {
		return "Item"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
