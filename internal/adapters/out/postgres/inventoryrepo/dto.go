// Package inventoryrepo persists ingredient stock and the ingredients each recipe uses.
package inventoryrepo

import "pos/internal/core/domain/model/kernel"

// InventoryDTO is one stocked ingredient. Ingredients without a minimum stock never
// count as low.
type InventoryDTO struct {
	ID           int          `gorm:"primaryKey;autoIncrement"`
	Ingredient   string       `gorm:"not null;uniqueIndex"`
	Quantity     int          `gorm:"not null"`
	Price        kernel.Money `gorm:"type:numeric(10,2);not null"`
	MinimumStock *int
}

func (InventoryDTO) TableName() string {
	return "inventory"
}

// RecipeIngredientDTO links a menu recipe to an ingredient it consumes.
type RecipeIngredientDTO struct {
	RecipeID     int `gorm:"primaryKey;autoIncrement:false"`
	IngredientID int `gorm:"primaryKey;autoIncrement:false;index"`
}

func (RecipeIngredientDTO) TableName() string {
	return "recipe_ingredient"
}
