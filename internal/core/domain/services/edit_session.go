package services

import (
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/pkg/errs"
)

// EditSession keeps one committed line in two-way sync with the selection engine.
//
// While bound:
//   - a non-empty selection that passes CanCommit replaces the line's recipes and
//     price and becomes the new checkpoint
//   - an empty selection restores the line from the checkpoint, which does not move
//   - a non-empty but incomplete selection leaves the line at its checkpoint
//   - switching category ends the session, restoring first when the selection was
//     empty
//
// Entering the bound line a second time ends the session and clears the selection
// without touching the line.
type EditSession struct {
	engine *selection.Engine
	pricer selection.Pricer
	draft  *order.Order

	bound    order.LineID
	snapshot order.Snapshot
	loading  bool
}

// NewEditSession subscribes a session to engine changes. draft is the order whose
// lines may be edited.
func NewEditSession(engine *selection.Engine, pricer selection.Pricer, draft *order.Order) (*EditSession, error) {
	switch {
	case engine == nil:
		return nil, errs.NewValueIsRequiredError("engine")
	case pricer == nil:
		return nil, errs.NewValueIsRequiredError("pricer")
	case draft == nil:
		return nil, errs.NewValueIsRequiredError("draft")
	}
	s := &EditSession{engine: engine, pricer: pricer, draft: draft}
	engine.OnChange(s.onChange)
	return s, nil
}

// Active returns the bound line.
func (s *EditSession) Active() (order.LineID, bool) {
	return s.bound, s.bound != 0
}

// Enter binds line id, snapshots it and loads it into the engine. Entering the
// already bound line exits instead.
func (s *EditSession) Enter(id order.LineID) error {
	if s.bound == id && id != 0 {
		s.Exit()
		return nil
	}
	line, ok := s.draft.Line(id)
	if !ok {
		return errs.NewObjectNotFoundError("lineId", id)
	}

	s.loading = true
	err := s.engine.Load(line.Category, line.Recipes)
	s.loading = false
	if err != nil {
		return err
	}

	s.bound = id
	s.snapshot = order.TakeSnapshot(line)
	return nil
}

// Exit unbinds the line and clears the selection. The line keeps its last written
// state.
func (s *EditSession) Exit() {
	if s.bound == 0 {
		return
	}
	s.end()
	s.engine.Reset()
}

// Detach unbinds line id without restoring it. It is used when the line is being
// removed.
func (s *EditSession) Detach(id order.LineID) {
	if s.bound == id {
		s.end()
	}
}

func (s *EditSession) end() {
	s.bound = 0
	s.snapshot = order.Snapshot{}
}

func (s *EditSession) onChange(c selection.Change) {
	if s.bound == 0 || s.loading {
		return
	}
	switch c.Kind {
	case selection.CategoryChanged:
		if c.Previous.IsEmpty() {
			s.restore()
		}
		s.end()
	case selection.Loaded:
		s.end()
	case selection.SelectionChanged, selection.Cleared:
		s.writeBack(c)
	}
}

func (s *EditSession) writeBack(c selection.Change) {
	if c.Current.IsEmpty() {
		s.restore()
		return
	}
	if ok, _ := s.engine.CanCommit(); !ok {
		return
	}
	recipes := c.Current.Recipes()
	if err := s.draft.Replace(s.bound, recipes, s.pricer.Price(c.Category, recipes)); err != nil {
		s.end()
		return
	}
	if line, ok := s.draft.Line(s.bound); ok {
		s.snapshot = order.TakeSnapshot(line)
	}
}

func (s *EditSession) restore() {
	if err := s.draft.Replace(s.bound, s.snapshot.Recipes(), s.snapshot.Price()); err != nil {
		s.end()
	}
}
