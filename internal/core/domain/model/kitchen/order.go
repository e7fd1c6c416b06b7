package kitchen

import (
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
)

// DisplayGroup is one item of a ticket: a title such as "Bigger Plate" and the
// lines a cook reads.
type DisplayGroup struct {
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Lines    []string `json:"lines"`
}

func (g DisplayGroup) clone() DisplayGroup {
	g.Lines = append([]string(nil), g.Lines...)
	return g
}

// Order is a ticket on a kitchen display.
type Order struct {
	ID         int
	PlacedAt   time.Time
	EmployeeID *int
	Groups     []DisplayGroup
	Status     order.Status
	Total      kernel.Money
}

// Clone deep-copies the ticket.
func (o Order) Clone() Order {
	if o.Groups != nil {
		groups := make([]DisplayGroup, len(o.Groups))
		for i, g := range o.Groups {
			groups[i] = g.clone()
		}
		o.Groups = groups
	}
	if o.EmployeeID != nil {
		id := *o.EmployeeID
		o.EmployeeID = &id
	}
	return o
}

type ticketJSON struct {
	ID         int            `json:"id"`
	OrderID    int            `json:"order_id"`
	Time       string         `json:"time,omitempty"`
	EmployeeID *int           `json:"employee_id,omitempty"`
	Items      []DisplayGroup `json:"items"`
	Status     string         `json:"status"`
	Total      kernel.Money   `json:"total"`
}

// MarshalJSON writes the bootstrap entry form. Both id and order_id are set so
// older displays keep working.
func (o Order) MarshalJSON() ([]byte, error) {
	t := ticketJSON{
		ID:         o.ID,
		OrderID:    o.ID,
		EmployeeID: o.EmployeeID,
		Items:      o.Groups,
		Status:     o.Status.String(),
		Total:      o.Total,
	}
	if t.Items == nil {
		t.Items = []DisplayGroup{}
	}
	if !o.PlacedAt.IsZero() {
		t.Time = o.PlacedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(t)
}

// FromPlaced builds the ticket of a placed order.
func FromPlaced(o *order.PlacedOrder) Order {
	return Order{
		ID:         o.ID(),
		PlacedAt:   o.PlacedAt(),
		EmployeeID: o.EmployeeID(),
		Groups:     GroupsFromItems(o.Items()),
		Status:     o.Status(),
		Total:      o.Total(),
	}
}

// GroupsFromItems converts order items into display groups.
func GroupsFromItems(items []order.Item) []DisplayGroup {
	groups := make([]DisplayGroup, 0, len(items))
	for _, it := range items {
		groups = append(groups, GroupFromItem(it))
	}
	return groups
}

// GroupFromItem renders one order item. Meals list entrees first, repeated units
// collapsed into "2x Broccoli Beef", then sides with half portions marked.
// Singleton items list the item with its size.
func GroupFromItem(it order.Item) DisplayGroup {
	g := DisplayGroup{Category: string(it.Category), Title: it.Category.DisplayName()}
	if it.Category.IsMeal() {
		if it.MenuItemName != "" {
			g.Title = it.MenuItemName
		}
		var entrees, sides []menu.Recipe
		for _, r := range it.Recipes {
			switch r.Type {
			case menu.TypeEntree:
				entrees = append(entrees, r)
			case menu.TypeSide:
				sides = append(sides, r)
			}
		}
		g.Lines = append(g.Lines, countedLines(entrees)...)
		for _, r := range sides {
			g.Lines = append(g.Lines, portionLine(r.Name, r.Half))
		}
		return g
	}
	for _, r := range it.Recipes {
		g.Lines = append(g.Lines, sizedLine(r.Name, r.Size))
	}
	return g
}

func countedLines(recipes []menu.Recipe) []string {
	counts := make(map[string]int, len(recipes))
	var names []string
	for _, r := range recipes {
		if counts[r.Name] == 0 {
			names = append(names, r.Name)
		}
		counts[r.Name]++
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, countedLine(name, counts[name]))
	}
	return lines
}

func countedLine(name string, n int) string {
	if n > 1 {
		return fmt.Sprintf("%dx %s", n, name)
	}
	return name
}

func portionLine(name string, half bool) string {
	if half {
		return name + " (half)"
	}
	return name
}

func sizedLine(name string, size *menu.Size) string {
	if size == nil || *size == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, *size)
}
