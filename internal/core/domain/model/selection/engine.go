package selection

import (
	"errors"
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"
)

var ErrEngineIsNotConstructed = errors.New("Engine must be created via NewEngine constructor")

// Pricer prices a finalized recipe list for a category.
type Pricer interface {
	Price(category menu.Category, recipes []menu.Recipe) kernel.Money
}

// ChangeKind tells listeners what caused a Change.
type ChangeKind int

const (
	// SelectionChanged follows a unit being added, removed or resized.
	SelectionChanged ChangeKind = iota + 1
	// Cleared follows Reset.
	Cleared
	// CategoryChanged follows SetCategory; the previous selection was dropped.
	CategoryChanged
	// Loaded follows Load.
	Loaded
)

// Change is delivered to listeners after every successful mutation.
type Change struct {
	Kind     ChangeKind
	Category menu.Category
	Previous Selection
	Current  Selection
}

type listener struct {
	id int
	fn func(Change)
}

// Engine enforces the quota rules of the active category over a working Selection.
//
// An Engine belongs to one interaction session and is not safe for concurrent use.
// Rejected operations return either a *Warning (quota or commit rules) or an errs
// error (bad input) and never modify the selection.
type Engine struct {
	catalog  *menu.Catalog
	pricer   Pricer
	category menu.Category
	config   menu.CategoryConfig
	current  Selection

	listeners  []listener
	listenerID int
}

// NewEngine creates an engine with no active category.
func NewEngine(catalog *menu.Catalog, pricer Pricer) (*Engine, error) {
	if catalog == nil {
		return nil, errs.NewValueIsRequiredError("catalog")
	}
	if pricer == nil {
		return nil, errs.NewValueIsRequiredError("pricer")
	}
	return &Engine{catalog: catalog, pricer: pricer}, nil
}

// OnChange registers fn to run after every successful mutation. The returned
// function unregisters it.
func (e *Engine) OnChange(fn func(Change)) func() {
	e.listenerID++
	id := e.listenerID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Category returns the active category, empty before SetCategory or Load.
func (e *Engine) Category() menu.Category {
	return e.category
}

// Config returns the quota rules of the active category.
func (e *Engine) Config() menu.CategoryConfig {
	return e.config
}

// Selection returns a copy of the working selection.
func (e *Engine) Selection() Selection {
	return e.current.Clone()
}

// Recipes returns the working selection as a flat recipe list.
func (e *Engine) Recipes() []menu.Recipe {
	return e.current.Recipes()
}

// Preview prices the working selection.
func (e *Engine) Preview() kernel.Money {
	if e.category == "" {
		return kernel.Zero
	}
	return e.pricer.Price(e.category, e.current.Recipes())
}

// SetCategory switches to category and replaces the selection with an empty one.
// Switching to the active category is a no-op.
func (e *Engine) SetCategory(category menu.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if category == e.category {
		return nil
	}
	cfg, err := e.catalog.Config(category)
	if err != nil {
		return err
	}
	previous := e.current
	e.category, e.config, e.current = category, cfg, Selection{}
	e.notify(CategoryChanged, previous)
	return nil
}

// Reset empties the selection and keeps the category.
func (e *Engine) Reset() {
	previous := e.current
	e.current = Selection{}
	e.notify(Cleared, previous)
}

// SelectSide adds one unit of side id.
func (e *Engine) SelectSide(id int) error {
	if err := e.requireMeal(); err != nil {
		return err
	}
	r, err := e.resolve(id, menu.TypeSide)
	if err != nil {
		return err
	}
	if w := e.checkSide(e.current, r); w != nil {
		return w
	}
	next := e.current.Clone()
	next.Sides = flagHalves(append(next.Sides, r.WithPrice(kernel.Zero)), e.config.MaxSideUnits)
	e.apply(next)
	return nil
}

// RemoveSideUnit removes the most recent unit of side id.
func (e *Engine) RemoveSideUnit(id int) error {
	if err := e.requireMeal(); err != nil {
		return err
	}
	next := e.current.Clone()
	sides, ok := removeLastUnit(next.Sides, id)
	if !ok {
		return errs.NewObjectNotFoundError("side", id)
	}
	next.Sides = flagHalves(sides, e.config.MaxSideUnits)
	e.apply(next)
	return nil
}

// SelectEntreeUnit adds one unit of entree id. The same entree may be picked
// repeatedly up to the category cap.
func (e *Engine) SelectEntreeUnit(id int) error {
	if err := e.requireMeal(); err != nil {
		return err
	}
	r, err := e.resolve(id, menu.TypeEntree)
	if err != nil {
		return err
	}
	if w := e.checkEntree(e.current); w != nil {
		return w
	}
	next := e.current.Clone()
	next.Entrees = append(next.Entrees, r.WithPrice(e.catalog.PriceBook().Surcharge(r.ID)))
	e.apply(next)
	return nil
}

// RemoveEntreeUnit removes the most recent unit of entree id.
func (e *Engine) RemoveEntreeUnit(id int) error {
	if err := e.requireMeal(); err != nil {
		return err
	}
	next := e.current.Clone()
	entrees, ok := removeLastUnit(next.Entrees, id)
	if !ok {
		return errs.NewObjectNotFoundError("entree", id)
	}
	next.Entrees = entrees
	e.apply(next)
	return nil
}

// SelectSingleton replaces the singleton with recipe id in size. A nil size
// selects menu.DefaultSize; drinks without size variants carry no size.
func (e *Engine) SelectSingleton(id int, size *menu.Size) error {
	if err := e.requireSingleton(); err != nil {
		return err
	}
	r, err := e.catalog.Recipe(id)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("recipe", err)
	}
	if !e.category.Accepts(r.Type) {
		return errs.NewValueIsInvalidErrorWithCause("recipe",
			fmt.Errorf("%s is not available as %s", r.Name, e.category.DisplayName()))
	}
	priced := e.priceSingleton(r, size)
	next := e.current.Clone()
	next.Singleton = &priced
	e.apply(next)
	return nil
}

// ChangeSize re-prices the current singleton in size. Drinks without size
// variants keep their single price and the call is a no-op.
func (e *Engine) ChangeSize(size menu.Size) error {
	if err := e.requireSingleton(); err != nil {
		return err
	}
	if e.current.Singleton == nil {
		return requiredWarning("singleton", "Please select an item first")
	}
	if e.category == menu.Drink && !e.catalog.PriceBook().HasSizes(e.current.Singleton.Name) {
		return nil
	}
	priced := e.priceSingleton(*e.current.Singleton, &size)
	next := e.current.Clone()
	next.Singleton = &priced
	e.apply(next)
	return nil
}

// Load rehydrates the engine with a committed line of category. The recipes must
// satisfy the same allocation rules as interactive selection; otherwise nothing
// changes and the violation is returned.
func (e *Engine) Load(category menu.Category, recipes []menu.Recipe) error {
	if err := category.Validate(); err != nil {
		return err
	}
	cfg, err := e.catalog.Config(category)
	if err != nil {
		return err
	}

	staged := &Engine{catalog: e.catalog, pricer: e.pricer, category: category, config: cfg}
	next := Selection{}
	for _, r := range recipes {
		switch {
		case category.IsSingleton():
			if next.Singleton != nil {
				return limitWarning("singleton", 1, "%s holds a single item", category.DisplayName())
			}
			if !category.Accepts(r.Type) {
				return errs.NewValueIsInvalidErrorWithCause("recipe",
					fmt.Errorf("%s is not available as %s", r.Name, category.DisplayName()))
			}
			rr := r.Clone()
			next.Singleton = &rr
		case r.Type == menu.TypeSide:
			if w := staged.checkSide(next, r); w != nil {
				return w
			}
			next.Sides = append(next.Sides, r.Clone())
		case r.Type == menu.TypeEntree:
			if w := staged.checkEntree(next); w != nil {
				return w
			}
			next.Entrees = append(next.Entrees, r.Clone())
		default:
			return errs.NewValueIsInvalidErrorWithCause("recipe",
				fmt.Errorf("%s cannot be part of a %s", r.Name, category.DisplayName()))
		}
	}
	next.Sides = flagHalves(next.Sides, cfg.MaxSideUnits)

	previous := e.current
	e.category, e.config, e.current = category, cfg, next
	e.notify(Loaded, previous)
	return nil
}

// CanCommit reports whether the selection forms a complete line. Meals need at
// least one side and one entree; singleton categories need their item.
func (e *Engine) CanCommit() (bool, *Warning) {
	switch {
	case e.category == "":
		return false, requiredWarning("category", "Please choose a category")
	case e.category.IsSingleton():
		if e.current.Singleton == nil {
			return false, requiredWarning("singleton", "Please select an item")
		}
	default:
		if len(e.current.Sides) == 0 {
			return false, requiredWarning("sides", "Please select at least one side")
		}
		if len(e.current.Entrees) == 0 {
			return false, requiredWarning("entrees", "Please select at least one entree")
		}
	}
	return true, nil
}

func (e *Engine) checkSide(s Selection, r menu.Recipe) *Warning {
	if s.SideUnits(r.ID) >= e.config.MaxUnitsPerSide {
		return limitWarning("side", e.config.MaxUnitsPerSide, "%s is already selected", r.Name)
	}
	if len(s.Sides) >= e.config.MaxSideUnits {
		return limitWarning("sides", e.config.MaxSideUnits, "You can only choose %d sides", e.config.MaxSideUnits)
	}
	return nil
}

func (e *Engine) checkEntree(s Selection) *Warning {
	if len(s.Entrees) >= e.config.MaxEntreeUnits {
		noun := "entrees"
		if e.config.MaxEntreeUnits == 1 {
			noun = "entree"
		}
		return limitWarning("entrees", e.config.MaxEntreeUnits,
			"A %s includes %d %s", e.category.DisplayName(), e.config.MaxEntreeUnits, noun)
	}
	return nil
}

func (e *Engine) priceSingleton(r menu.Recipe, size *menu.Size) menu.Recipe {
	var sized menu.Recipe
	if e.category == menu.Drink && !e.catalog.PriceBook().HasSizes(r.Name) {
		sized = r.WithSize(nil)
	} else {
		s := menu.SizeOrDefault(size)
		sized = r.WithSize(&s)
	}
	sized = sized.WithHalf(false)
	return sized.WithPrice(e.pricer.Price(e.category, []menu.Recipe{sized}))
}

func (e *Engine) resolve(id int, want menu.RecipeType) (menu.Recipe, error) {
	r, err := e.catalog.Recipe(id)
	if err != nil {
		return menu.Recipe{}, errs.NewValueIsInvalidErrorWithCause("recipe", err)
	}
	if r.Type != want {
		return menu.Recipe{}, errs.NewValueIsInvalidErrorWithCause("recipe",
			fmt.Errorf("%s is not a %s", r.Name, want))
	}
	return r, nil
}

func (e *Engine) requireMeal() error {
	if e.category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	if !e.category.IsMeal() {
		return errs.NewValueIsInvalidErrorWithCause("category",
			fmt.Errorf("%s has no sides or entrees", e.category.DisplayName()))
	}
	return nil
}

func (e *Engine) requireSingleton() error {
	if e.category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	if !e.category.IsSingleton() {
		return errs.NewValueIsInvalidErrorWithCause("category",
			fmt.Errorf("%s is not a single-item category", e.category.DisplayName()))
	}
	return nil
}

func (e *Engine) apply(next Selection) {
	previous := e.current
	e.current = next
	e.notify(SelectionChanged, previous)
}

func (e *Engine) notify(kind ChangeKind, previous Selection) {
	change := Change{
		Kind:     kind,
		Category: e.category,
		Previous: previous.Clone(),
		Current:  e.current.Clone(),
	}
	listeners := append([]listener(nil), e.listeners...)
	for _, l := range listeners {
		l.fn(change)
	}
}
