package commands

import (
	"errors"

	"pos/internal/pkg/guard"
)

// PublishLowStockCommand triggers a scan of the whole inventory and broadcasts the
// items at or below their minimum stock.
//
// Example:
//
//	cmd := NewPublishLowStockCommand()
//	handler := NewPublishLowStockCommandHandler(uowFactory, hub)
//
//	// Run periodically so displays see shortages that no single order revealed
//	if _, err := handler.Handle(ctx, cmd); err != nil {
//	    logger.Error("low stock scan failed", "error", err)
//	}
type PublishLowStockCommand struct {
	guard guard.ConstructorGuard
}

var (
	ErrPublishLowStockCommandIsNotConstructed = errors.New(
		"PublishLowStockCommand must be created via NewPublishLowStockCommand constructor",
	)
)

// NewPublishLowStockCommand creates a parameterless low stock scan.
func NewPublishLowStockCommand() PublishLowStockCommand {
	return PublishLowStockCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *PublishLowStockCommand) Validate() error {
	return c.guard.Validate(ErrPublishLowStockCommandIsNotConstructed)
}
