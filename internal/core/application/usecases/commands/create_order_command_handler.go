package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

var (
	ErrPriceMismatch = errors.New("submitted price does not match the menu")
)

// CreateOrderCommandHandler places orders. Every line is re-priced from the menu
// catalog before anything is stored, so a client cannot set its own prices.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, calculator, hub, logger)
//	cmd, _ := NewCreateOrderCommand(items, total, nil)
//
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// Order is stored, ingredients are consumed and kitchen displays are notified
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    *menu.Catalog
	pricer     selection.Pricer
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires a UoWFactory so the order and its inventory consumption commit together.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	catalog *menu.Catalog,
	pricer selection.Pricer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		pricer:     pricer,
		publisher:  publisher,
		logger:     logger.With("component", "create_order_handler"),
		now:        time.Now,
	}
}

// Handle verifies and places the order and returns its id.
//
// Steps:
//  1. Resolve every recipe against the catalog and re-price every line
//  2. Check the submitted total equals the re-priced subtotal plus tax
//  3. Store the order and consume its ingredients in one transaction
//  4. After commit, broadcast the new ticket and any low stock it caused
//
// Broadcast failures are logged and never fail an order that is already stored.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	items, err := h.verify(cmd.Items(), cmd)
	if err != nil {
		return 0, err
	}

	placed, err := order.NewPlacedOrder(items, cmd.Total(), h.now().UTC(), cmd.EmployeeID())
	if err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return 0, err
	}

	inventoryRepo := uow.InventoryRepository()
	recipeIDs := placed.RecipeIDs()
	if err = inventoryRepo.Consume(ctx, recipeIDs); err != nil {
		return 0, err
	}

	lowStock, err := inventoryRepo.LowStockFor(ctx, recipeIDs)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.publish(ctx, kitchen.NewOrderCreated(kitchen.FromPlaced(placed)))
	if len(lowStock) > 0 {
		h.publish(ctx, kitchen.LowStock{Items: lowStock})
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", placed.ID(),
		"items", len(items),
		"total", placed.Total().String(),
	)

	return placed.ID(), nil
}

// verify replaces submitted recipes with their catalog definitions, checks every
// line against its category's composition rules and checks every price.
func (h *CreateOrderCommandHandler) verify(items []order.Item, cmd CreateOrderCommand) ([]order.Item, error) {
	engine, err := selection.NewEngine(h.catalog, h.pricer)
	if err != nil {
		return nil, err
	}

	subtotal := kernel.Zero
	for i := range items {
		it := &items[i]
		if err := it.Category.Validate(); err != nil {
			return nil, err
		}

		recipes, err := h.resolve(it.Category, it.Recipes)
		if err != nil {
			return nil, err
		}
		if err := composable(engine, it.Category, recipes); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("item %d (%s): %w", i+1, it.Category.DisplayName(), err))
		}
		it.Recipes = recipes

		price := h.pricer.Price(it.Category, recipes)
		if !price.Equal(it.Price) {
			return nil, fmt.Errorf("%w: item %d (%s) priced %s, menu price %s",
				ErrPriceMismatch, i+1, it.Category.DisplayName(), it.Price, price)
		}
		subtotal = subtotal.Add(price)
	}

	if total := order.ComputeTotals(subtotal).Total; !total.Equal(cmd.Total()) {
		return nil, fmt.Errorf("%w: total priced %s, menu total %s", ErrPriceMismatch, cmd.Total(), total)
	}

	return items, nil
}

func (h *CreateOrderCommandHandler) resolve(category menu.Category, submitted []menu.Recipe) ([]menu.Recipe, error) {
	resolved := make([]menu.Recipe, 0, len(submitted))
	for _, r := range submitted {
		base, err := h.catalog.Recipe(r.ID)
		if err != nil {
			return nil, err
		}

		if !accepts(category, base.Type) {
			return nil, errs.NewValueIsInvalidErrorWithCause("recipes",
				fmt.Errorf("%s cannot be ordered as %s", base.Name, category.DisplayName()))
		}

		recipe := base.WithHalf(r.Half)
		if category.IsSingleton() {
			recipe = recipe.WithSize(r.Size)
			recipe = recipe.WithPrice(h.pricer.Price(category, []menu.Recipe{recipe}))
		}
		resolved = append(resolved, recipe)
	}
	return resolved, nil
}

func (h *CreateOrderCommandHandler) publish(ctx context.Context, event kitchen.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to broadcast kitchen event",
			"event", event.Kind().String(),
			"error", err,
		)
	}
}

// composable reports why recipes could not have been committed as one line of
// category at the counter.
func composable(engine *selection.Engine, category menu.Category, recipes []menu.Recipe) error {
	if err := engine.Load(category, recipes); err != nil {
		return err
	}
	if ok, w := engine.CanCommit(); !ok {
		return w
	}
	return nil
}

func accepts(category menu.Category, t menu.RecipeType) bool {
	if category.IsMeal() {
		return t == menu.TypeSide || t == menu.TypeEntree
	}
	return category.Accepts(t)
}
