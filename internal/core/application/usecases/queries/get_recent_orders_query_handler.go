package queries

import (
	"context"
	"database/sql"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetRecentOrdersQueryHandler reads recent orders with their items and recipes and
// renders them as kitchen tickets.
type GetRecentOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetRecentOrdersQueryHandler creates a handler for recent order queries.
// Requires a GORM database connection for query execution.
func NewGetRecentOrdersQueryHandler(db *gorm.DB) GetRecentOrdersQueryHandler {
	return GetRecentOrdersQueryHandler{db: db}
}

// Handle returns up to query.Limit() tickets ordered by placement time, newest
// first. It issues three statements: orders, their items, and the items' recipes.
func (h GetRecentOrdersQueryHandler) Handle(ctx context.Context, query GetRecentOrdersQuery) ([]kitchen.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)

	tickets, ids, err := h.orders(db, query.Limit())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return tickets, nil
	}

	items, itemOrder, err := h.items(db, ids)
	if err != nil {
		return nil, err
	}

	if err = h.recipes(db, ids, items); err != nil {
		return nil, err
	}

	byOrder := make(map[int][]order.Item, len(ids))
	for _, itemID := range itemOrder {
		it := items[itemID]
		byOrder[it.orderID] = append(byOrder[it.orderID], it.item)
	}

	for i := range tickets {
		tickets[i].Groups = kitchen.GroupsFromItems(byOrder[tickets[i].ID])
	}

	return tickets, nil
}

type loadedItem struct {
	orderID int
	item    order.Item
}

func (h GetRecentOrdersQueryHandler) orders(db *gorm.DB, limit int) ([]kitchen.Order, pq.Int64Array, error) {
	rows, err := db.Raw(`
		SELECT id, placed_at, employee_id, total, status
		FROM orders
		ORDER BY placed_at DESC, id DESC
		LIMIT ?
	`, limit).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tickets := make([]kitchen.Order, 0, limit)
	ids := make(pq.Int64Array, 0, limit)
	for rows.Next() {
		var (
			t        kitchen.Order
			placedAt time.Time
			employee sql.NullInt64
			total    kernel.Money
			status   int
		)
		if err = rows.Scan(&t.ID, &placedAt, &employee, &total, &status); err != nil {
			return nil, nil, err
		}

		t.PlacedAt = placedAt
		t.Total = total
		t.Status = order.Status(status)
		if employee.Valid {
			id := int(employee.Int64)
			t.EmployeeID = &id
		}

		tickets = append(tickets, t)
		ids = append(ids, int64(t.ID))
	}

	return tickets, ids, rows.Err()
}

func (h GetRecentOrdersQueryHandler) items(db *gorm.DB, ids pq.Int64Array) (map[int]*loadedItem, []int, error) {
	rows, err := db.Raw(`
		SELECT id, order_id, menu_item_name, category, price
		FROM order_items
		WHERE order_id = ANY(?::bigint[])
		ORDER BY order_id, position
	`, ids).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	items := make(map[int]*loadedItem)
	var sequence []int
	for rows.Next() {
		var (
			id       int
			loaded   loadedItem
			category string
		)
		if err = rows.Scan(&id, &loaded.orderID, &loaded.item.MenuItemName, &category, &loaded.item.Price); err != nil {
			return nil, nil, err
		}
		loaded.item.Category = menu.Category(category)
		items[id] = &loaded
		sequence = append(sequence, id)
	}

	return items, sequence, rows.Err()
}

func (h GetRecentOrdersQueryHandler) recipes(db *gorm.DB, ids pq.Int64Array, items map[int]*loadedItem) error {
	rows, err := db.Raw(`
		SELECT ro.order_item_id, ro.recipe_id, ro.name, ro.type, ro.size, ro.half, ro.price
		FROM recipe_orders ro
		JOIN order_items oi ON oi.id = ro.order_item_id
		WHERE oi.order_id = ANY(?::bigint[])
		ORDER BY ro.order_item_id, ro.position
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID   int
			r        menu.Recipe
			typeName string
			size     sql.NullString
		)
		if err = rows.Scan(&itemID, &r.ID, &r.Name, &typeName, &size, &r.Half, &r.Price); err != nil {
			return err
		}
		r.Type = menu.ParseRecipeType(typeName)
		if size.Valid && size.String != "" {
			s := menu.Size(size.String)
			r.Size = &s
		}

		if loaded, ok := items[itemID]; ok {
			loaded.item.Recipes = append(loaded.item.Recipes, r)
		}
	}

	return rows.Err()
}
