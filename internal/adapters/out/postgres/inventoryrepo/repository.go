package inventoryrepo

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormInventoryRepository implements InventoryRepository with set-based SQL so an
// order of any size costs one statement.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Consume decrements each ingredient once per recipe unit that uses it. Repeated
// recipe ids are counted, so two Orange Chicken units take two portions of chicken.
func (r *GormInventoryRepository) Consume(ctx context.Context, recipeIDs []int) error {
	if len(recipeIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Exec(`
		UPDATE inventory AS i
		SET quantity = i.quantity - u.uses
		FROM (
			SELECT ri.ingredient_id, COUNT(*) AS uses
			FROM unnest(?::bigint[]) AS r(recipe_id)
			JOIN recipe_ingredient ri ON ri.recipe_id = r.recipe_id
			GROUP BY ri.ingredient_id
		) AS u
		WHERE i.id = u.ingredient_id
	`, toInt64Array(recipeIDs)).Error
}

// LowStockFor lists, by name, the ingredients of recipeIDs at or below their
// minimum stock.
func (r *GormInventoryRepository) LowStockFor(ctx context.Context, recipeIDs []int) ([]string, error) {
	if len(recipeIDs) == 0 {
		return []string{}, nil
	}

	var names pq.StringArray
	err := r.db.WithContext(ctx).Raw(`
		SELECT array_agg(DISTINCT i.ingredient ORDER BY i.ingredient)
		FROM inventory i
		JOIN recipe_ingredient ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ANY(?::bigint[])
			AND i.minimum_stock IS NOT NULL
			AND i.quantity <= i.minimum_stock
	`, toInt64Array(recipeIDs)).Row().Scan(&names)
	if err != nil {
		return nil, err
	}

	return nonNil(names), nil
}

// LowStock lists every ingredient at or below its minimum stock.
func (r *GormInventoryRepository) LowStock(ctx context.Context) ([]string, error) {
	var names pq.StringArray
	err := r.db.WithContext(ctx).Raw(`
		SELECT array_agg(ingredient ORDER BY ingredient)
		FROM inventory
		WHERE minimum_stock IS NOT NULL
			AND quantity <= minimum_stock
	`).Row().Scan(&names)
	if err != nil {
		return nil, err
	}

	return nonNil(names), nil
}

func toInt64Array(ids []int) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func nonNil(names pq.StringArray) []string {
	if names == nil {
		return []string{}
	}
	return []string(names)
}
