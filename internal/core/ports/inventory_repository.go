package ports

import "context"

// InventoryRepository tracks the ingredients recipes are made from.
type InventoryRepository interface {
	// Consume decrements every ingredient of a recipe by one for each occurrence
	// of the recipe id.
	Consume(ctx context.Context, recipeIDs []int) error

	// LowStockFor lists the names of ingredients used by recipeIDs whose quantity
	// is at or below their minimum stock.
	LowStockFor(ctx context.Context, recipeIDs []int) ([]string, error)

	// LowStock lists every ingredient at or below its minimum stock.
	LowStock(ctx context.Context) ([]string, error)
}
