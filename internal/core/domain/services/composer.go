package services

import (
	"context"
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/pkg/errs"
)

// OrderSubmitter places a submission with the order service and returns its id.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, submission order.Submission) (int, error)
}

// State is a read-only view of a composer for rendering.
type State struct {
	Category  menu.Category       `json:"category"`
	Selection selection.Selection `json:"selection"`
	Preview   kernel.Money        `json:"preview"`
	CanCommit bool                `json:"can_commit"`
	Editing   *order.LineID       `json:"editing,omitempty"`
	Lines     []order.Line        `json:"lines"`
	Totals    order.Totals        `json:"totals"`
}

// Composer owns the draft order of one interaction session.
//
// Key responsibilities:
//   - Committing the engine's selection as a new line
//   - Removing lines, tearing down an edit bound to the removed line
//   - Deriving subtotal, tax and total
//   - Submitting the draft atomically and starting over on success
//
// Example usage:
//
//	c, _ := services.NewComposer(catalog, calc)
//	_ = c.Engine().SetCategory(menu.Bowl)
//	_ = c.Engine().SelectSide(16)
//	_ = c.Engine().SelectEntreeUnit(1)
//	line, err := c.Commit()
//	receipt, err := c.Submit(ctx, gateway)
type Composer struct {
	engine  *selection.Engine
	pricer  selection.Pricer
	session *EditSession
	draft   order.Order
	lastID  order.LineID
}

// NewComposer creates a composer with an empty draft and no active category.
func NewComposer(catalog *menu.Catalog, pricer selection.Pricer) (*Composer, error) {
	engine, err := selection.NewEngine(catalog, pricer)
	if err != nil {
		return nil, err
	}
	c := &Composer{engine: engine, pricer: pricer}
	c.session, err = NewEditSession(engine, pricer, &c.draft)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Engine returns the selection engine driving this composer.
func (c *Composer) Engine() *selection.Engine {
	return c.engine
}

// Edit enters (or, for the bound line, leaves) edit mode on line id.
func (c *Composer) Edit(id order.LineID) error {
	return c.session.Enter(id)
}

// Editing returns the line being edited.
func (c *Composer) Editing() (order.LineID, bool) {
	return c.session.Active()
}

// Commit appends the current selection as a new line. An active edit ends first.
// The selection is kept so the same line can be committed again.
//
// Returns:
//   - order.Line: the committed line
//   - error: a *selection.Warning when the selection is incomplete
func (c *Composer) Commit() (order.Line, error) {
	if ok, w := c.engine.CanCommit(); !ok {
		return order.Line{}, w
	}
	c.session.end()

	recipes := c.engine.Recipes()
	category := c.engine.Category()
	line, err := order.NewLine(c.lastID+1, category, recipes, c.pricer.Price(category, recipes))
	if err != nil {
		return order.Line{}, err
	}
	c.draft.Append(line)
	c.lastID = line.ID
	return line, nil
}

// Remove deletes line id. An edit bound to it is dropped without restoring.
func (c *Composer) Remove(id order.LineID) error {
	if _, ok := c.draft.Line(id); !ok {
		return errs.NewObjectNotFoundError("lineId", id)
	}
	c.session.Detach(id)
	c.draft.Remove(id)
	return nil
}

// Lines returns copies of the committed lines.
func (c *Composer) Lines() []order.Line {
	return c.draft.Lines()
}

// Totals derives subtotal, tax and total of the draft.
func (c *Composer) Totals() order.Totals {
	return c.draft.Totals()
}

// State captures everything a view renders.
func (c *Composer) State() State {
	ok, _ := c.engine.CanCommit()
	st := State{
		Category:  c.engine.Category(),
		Selection: c.engine.Selection(),
		Preview:   c.engine.Preview(),
		CanCommit: ok,
		Lines:     c.draft.Lines(),
		Totals:    c.draft.Totals(),
	}
	if id, editing := c.session.Active(); editing {
		st.Editing = &id
	}
	return st
}

// Submit places the draft through submitter as one request.
//
// On failure the draft is left exactly as it was and the error is returned; there
// is no retry. On success the draft, the edit session and the selection are reset
// and a receipt for the placed order is returned.
func (c *Composer) Submit(ctx context.Context, submitter OrderSubmitter) (order.Receipt, error) {
	if c.draft.IsEmpty() {
		return order.Receipt{}, errs.NewValueIsRequiredError("lines")
	}
	if submitter == nil {
		return order.Receipt{}, errs.NewValueIsRequiredError("submitter")
	}

	id, err := submitter.CreateOrder(ctx, order.NewSubmission(&c.draft))
	if err != nil {
		return order.Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	receipt := order.Receipt{OrderID: id, Lines: c.draft.Lines(), Totals: c.draft.Totals()}
	c.session.end()
	c.draft = order.Order{}
	c.engine.Reset()
	return receipt, nil
}
