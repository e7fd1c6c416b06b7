// Package queries contains read operations that serve kitchen displays straight
// from the database without loading aggregates.
package queries

import (
	"errors"

	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

const (
	// DefaultRecentOrdersLimit is the bootstrap size used when none is configured.
	DefaultRecentOrdersLimit = 50
	maxRecentOrdersLimit     = 500
)

var (
	ErrGetRecentOrdersQueryIsNotConstructed = errors.New(
		"GetRecentOrdersQuery must be created via NewGetRecentOrdersQuery constructor",
	)
)

// GetRecentOrdersQuery retrieves the most recent orders, newest first, as kitchen
// tickets.
//
// Example:
//
//	query, _ := NewGetRecentOrdersQuery(50)
//	handler := NewGetRecentOrdersQueryHandler(db)
//
//	tickets, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load kitchen snapshot: %w", err)
//	}
//	fmt.Printf("Bootstrapping display with %d tickets\n", len(tickets))
type GetRecentOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentOrdersQuery creates a query for at most limit orders.
func NewGetRecentOrdersQuery(limit int) (GetRecentOrdersQuery, error) {
	if limit <= 0 || limit > maxRecentOrdersLimit {
		return GetRecentOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxRecentOrdersLimit)
	}
	return GetRecentOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentOrdersQueryIsNotConstructed)
}

func (q GetRecentOrdersQuery) Limit() int {
	return q.limit
}
