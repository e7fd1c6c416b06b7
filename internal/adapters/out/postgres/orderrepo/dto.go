// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// A placed order is stored across three tables: orders, order_items and recipe_orders, one row
// per recipe unit so inventory and sales queries can join on recipe ids.
package orderrepo

import (
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting placed orders.
type OrderDTO struct {
	ID         int       `gorm:"primaryKey;autoIncrement"`
	PlacedAt   time.Time `gorm:"not null;index"`
	EmployeeID *int
	Total      kernel.Money   `gorm:"type:numeric(10,2);not null"`
	Status     int            `gorm:"not null;index"`
	Items      []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of an order.
type OrderItemDTO struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	OrderID      int    `gorm:"not null;index"`
	Position     int    `gorm:"not null"`
	MenuItemName string `gorm:"not null"`
	Category     string `gorm:"not null"`

	Price   kernel.Money     `gorm:"type:numeric(10,2);not null"`
	Recipes []RecipeOrderDTO `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// RecipeOrderDTO is one recipe unit of an order line.
type RecipeOrderDTO struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	OrderItemID int    `gorm:"not null;index"`
	Position    int    `gorm:"not null"`
	RecipeID    int    `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Type        string `gorm:"not null"`
	Size        *string
	Half        bool         `gorm:"not null;default:false"`
	Price       kernel.Money `gorm:"type:numeric(10,2);not null"`
}

func (RecipeOrderDTO) TableName() string {
	return "recipe_orders"
}

// fromDomain converts a placed order to its database representation.
func fromDomain(aggregate *order.PlacedOrder) OrderDTO {
	items := aggregate.Items()
	dto := OrderDTO{
		ID:         aggregate.ID(),
		PlacedAt:   aggregate.PlacedAt(),
		EmployeeID: aggregate.EmployeeID(),
		Total:      aggregate.Total(),
		Status:     int(aggregate.Status()),
		Items:      make([]OrderItemDTO, len(items)),
	}

	for i, it := range items {
		recipes := make([]RecipeOrderDTO, len(it.Recipes))
		for j, r := range it.Recipes {
			var size *string
			if r.Size != nil {
				s := string(*r.Size)
				size = &s
			}
			recipes[j] = RecipeOrderDTO{
				Position: j,
				RecipeID: r.ID,
				Name:     r.Name,
				Type:     string(r.Type),
				Size:     size,
				Half:     r.Half,
				Price:    r.Price,
			}
		}
		dto.Items[i] = OrderItemDTO{
			Position:     i,
			MenuItemName: it.MenuItemName,
			Category:     string(it.Category),
			Price:        it.Price,
			Recipes:      recipes,
		}
	}

	return dto
}

// toDomain converts a database DTO, loaded with its items and recipes, to a placed order.
func toDomain(dto OrderDTO) (*order.PlacedOrder, error) {
	items := make([]order.Item, len(dto.Items))
	for i, it := range dto.Items {
		recipes := make([]menu.Recipe, len(it.Recipes))
		for j, r := range it.Recipes {
			var size *menu.Size
			if r.Size != nil {
				s := menu.Size(*r.Size)
				size = &s
			}
			recipes[j] = menu.Recipe{
				ID:    r.RecipeID,
				Name:  r.Name,
				Type:  menu.ParseRecipeType(r.Type),
				Size:  size,
				Half:  r.Half,
				Price: r.Price,
			}
		}
		items[i] = order.Item{
			MenuItemName: it.MenuItemName,
			Category:     menu.Category(it.Category),
			Recipes:      recipes,
			Price:        it.Price,
		}
	}

	return order.RestorePlacedOrder(
		dto.ID,
		dto.PlacedAt,
		dto.EmployeeID,
		items,
		dto.Total,
		order.Status(dto.Status),
	)
}
