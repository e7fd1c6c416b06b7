// Package kitchenview keeps the ticket list of one kitchen display in sync with
// the order service: a bootstrap snapshot, live events layered on top, and status
// toggles confirmed by the kitchen API before they show.
package kitchenview

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

// View is safe for concurrent use. Listeners registered with OnChange run after
// every mutation, outside the lock.
type View struct {
	fetcher ports.SnapshotFetcher
	updater ports.StatusUpdater
	logger  *slog.Logger

	toggles singleflight.Group

	mu        sync.Mutex
	queue     kitchen.Queue
	lowStock  []string
	listeners map[int]func()
	nextID    int
}

func NewView(fetcher ports.SnapshotFetcher, updater ports.StatusUpdater, logger *slog.Logger) *View {
	return &View{
		fetcher:   fetcher,
		updater:   updater,
		logger:    logger.With("component", "kitchen_view"),
		listeners: make(map[int]func()),
	}
}

// OnChange registers fn and returns a function that removes it.
func (v *View) OnChange(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.listeners[id] = fn

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Bootstrap replaces the ticket list with a snapshot payload and returns the number
// of tickets installed. A malformed payload empties the list.
func (v *View) Bootstrap(payload []byte) int {
	orders := kitchen.ParseBootstrap(payload)

	v.mu.Lock()
	v.queue.Replace(orders)
	n := v.queue.Len()
	v.mu.Unlock()

	v.notify()
	return n
}

// Refresh fetches a snapshot and bootstraps from it. A failed fetch keeps the
// current list.
func (v *View) Refresh(ctx context.Context) error {
	payload, err := v.fetcher.FetchSnapshot(ctx)
	if err != nil {
		v.logger.WarnContext(ctx, "snapshot fetch failed", "error", err)
		return err
	}

	n := v.Bootstrap(payload)
	v.logger.DebugContext(ctx, "bootstrapped", "orders", n)
	return nil
}

// Apply layers a live event onto the list.
func (v *View) Apply(event kitchen.Event) {
	v.mu.Lock()
	switch e := event.(type) {
	case kitchen.OrderCreated:
		v.queue.Upsert(kitchen.Order{
			ID:     e.OrderID,
			Groups: e.Items,
			Status: order.NormalizeStatus(e.Status),
			Total:  e.Total,
		})
	case kitchen.StatusChanged:
		v.queue.SetStatus(e.OrderID, order.NormalizeStatus(e.Status))
	case kitchen.LowStock:
		v.lowStock = append([]string(nil), e.Items...)
	default:
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	v.notify()
}

// ApplyMessage decodes and applies a raw channel message. Malformed messages are
// dropped.
func (v *View) ApplyMessage(data []byte) {
	event, err := kitchen.ParseEvent(data)
	if err != nil {
		v.logger.Debug("dropping malformed event", "error", err)
		return
	}
	v.Apply(event)
}

// Toggle flips order id between pending and completed through the kitchen API.
// The local status changes only after the API confirms; on failure it is left as
// it was. Overlapping toggles of one order share a single request.
func (v *View) Toggle(ctx context.Context, id int) (order.Status, error) {
	v.mu.Lock()
	current, ok := v.queue.Get(id)
	v.mu.Unlock()
	if !ok {
		return order.Unknown, errs.NewObjectNotFoundError("order", id)
	}

	target := current.Status.Toggle()
	result, err, _ := v.toggles.Do(strconv.Itoa(id), func() (any, error) {
		return v.updater.UpdateStatus(ctx, id, target)
	})
	if err != nil {
		v.logger.WarnContext(ctx, "status toggle failed",
			"order_id", id,
			"target", target.String(),
			"error", err,
		)
		return current.Status, err
	}

	confirmed, _ := result.(order.Status)
	if confirmed.Validate() != nil {
		confirmed = target
	}

	v.mu.Lock()
	v.queue.SetStatus(id, confirmed)
	v.mu.Unlock()

	v.notify()
	return confirmed, nil
}

// Get returns a copy of ticket id.
func (v *View) Get(id int) (kitchen.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue.Get(id)
}

// ActivePage returns page n of tickets that are not completed.
func (v *View) ActivePage(n int) kitchen.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue.Active(n)
}

// CompletedPage returns page n of completed tickets.
func (v *View) CompletedPage(n int) kitchen.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue.Completed(n)
}

// LowStock returns the ingredients of the latest low stock event.
func (v *View) LowStock() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.lowStock...)
}

func (v *View) notify() {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
