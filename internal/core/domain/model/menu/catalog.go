package menu

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"
)

//go:embed catalog.json
var defaultCatalogJSON []byte

type mealDocument struct {
	Category        Category     `json:"category"`
	BasePrice       kernel.Money `json:"base_price"`
	MaxSideUnits    int          `json:"max_side_units"`
	MaxUnitsPerSide int          `json:"max_units_per_side"`
	MaxEntreeUnits  int          `json:"max_entree_units"`
}

type recipeDocument struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Type      RecipeType   `json:"type"`
	Surcharge kernel.Money `json:"surcharge"`
}

// catalogDocument is the JSON form of a catalog, also served to clients as the
// pricing reference.
type catalogDocument struct {
	Meals           []mealDocument          `json:"meals"`
	Recipes         []recipeDocument        `json:"recipes"`
	ALaCarte        SizeTable               `json:"a_la_carte"`
	ALaCartePremium SizeTable               `json:"a_la_carte_premium"`
	PremiumItems    []string                `json:"premium_items"`
	Appetizers      map[string]SizeTable    `json:"appetizers"`
	Drinks          map[string]SizeTable    `json:"drinks"`
	DrinkPrices     map[string]kernel.Money `json:"drink_prices"`
	HasSizes        map[string]bool         `json:"has_sizes"`
}

// Catalog is the read-only menu. It is safe for concurrent use.
type Catalog struct {
	doc     catalogDocument
	recipes map[int]Recipe
	byName  map[string]int
	configs map[Category]CategoryConfig
	book    *PriceBook
}

// DefaultCatalog returns the menu compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog document from path. An empty path yields the
// default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document. All problems found are
// reported together.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("catalog", err)
	}

	c := &Catalog{
		doc:     doc,
		recipes: make(map[int]Recipe, len(doc.Recipes)),
		byName:  make(map[string]int, len(doc.Recipes)),
		configs: make(map[Category]CategoryConfig, len(Categories())),
		book: &PriceBook{
			mealBase:    make(map[Category]kernel.Money, len(doc.Meals)),
			surcharges:  make(map[int]kernel.Money),
			standard:    doc.ALaCarte,
			premium:     doc.ALaCartePremium,
			premiumSet:  make(map[string]struct{}, len(doc.PremiumItems)),
			appetizers:  doc.Appetizers,
			drinks:      doc.Drinks,
			drinkPrices: doc.DrinkPrices,
			hasSizes:    doc.HasSizes,
		},
	}

	var problems []error
	for _, m := range doc.Meals {
		if !m.Category.IsMeal() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("meal category",
				fmt.Errorf("%q is not a meal", m.Category)))
			continue
		}
		if m.MaxSideUnits < 1 || m.MaxUnitsPerSide < 1 || m.MaxEntreeUnits < 1 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("meal quotas",
				fmt.Errorf("%s quotas must be positive", m.Category)))
		}
		if m.BasePrice.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("base price",
				fmt.Errorf("%s base price is negative", m.Category)))
		}
		c.configs[m.Category] = CategoryConfig{
			MaxSideUnits:    m.MaxSideUnits,
			MaxUnitsPerSide: m.MaxUnitsPerSide,
			MaxEntreeUnits:  m.MaxEntreeUnits,
			BasePrice:       m.BasePrice,
		}
		c.book.mealBase[m.Category] = m.BasePrice
	}
	for _, cat := range []Category{Bowl, Plate, BiggerPlate} {
		if _, ok := c.configs[cat]; !ok {
			problems = append(problems, errs.NewValueIsRequiredError("meal "+string(cat)))
		}
	}
	for _, cat := range []Category{ALaCarte, Appetizer, Drink} {
		c.configs[cat] = CategoryConfig{Singleton: true}
	}

	for _, r := range doc.Recipes {
		name := strings.TrimSpace(r.Name)
		switch {
		case r.ID <= 0:
			problems = append(problems, errs.NewValueIsOutOfRangeError("recipe id", r.ID, 1, nil))
			continue
		case name == "":
			problems = append(problems, errs.NewValueIsRequiredError(fmt.Sprintf("recipe %d name", r.ID)))
			continue
		case r.Surcharge.IsNegative():
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("surcharge",
				fmt.Errorf("%s surcharge is negative", name)))
			continue
		}
		if _, dup := c.recipes[r.ID]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("recipe id",
				fmt.Errorf("duplicate id %d", r.ID)))
			continue
		}
		recipe := Recipe{ID: r.ID, Name: name, Type: r.Type}
		if r.Type == TypeEntree {
			recipe.Price = r.Surcharge
			c.book.surcharges[r.ID] = r.Surcharge
		}
		c.recipes[r.ID] = recipe
		c.byName[strings.ToLower(name)] = r.ID
	}
	for _, name := range doc.PremiumItems {
		c.book.premiumSet[name] = struct{}{}
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return c, nil
}

// Recipe returns the catalog entry with id. Entrees carry their meal surcharge as
// Price; every other recipe is unpriced until it is selected.
func (c *Catalog) Recipe(id int) (Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return Recipe{}, errs.NewObjectNotFoundError("recipe", id)
	}
	return r, nil
}

// RecipeByName looks a recipe up ignoring case.
func (c *Catalog) RecipeByName(name string) (Recipe, error) {
	id, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Recipe{}, errs.NewObjectNotFoundError("recipe", name)
	}
	return c.recipes[id], nil
}

// Recipes lists the recipes of type t ordered by id. TypeOther lists everything.
func (c *Catalog) Recipes(t RecipeType) []Recipe {
	out := make([]Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		if t == TypeOther || r.Type == t {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Config returns the quota rules of category.
func (c *Catalog) Config(category Category) (CategoryConfig, error) {
	cfg, ok := c.configs[category]
	if !ok {
		return CategoryConfig{}, errs.NewValueIsInvalidError("category")
	}
	return cfg, nil
}

// PriceBook returns the catalog prices.
func (c *Catalog) PriceBook() *PriceBook {
	return c.book
}

// MarshalJSON writes the catalog document.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.doc)
}
