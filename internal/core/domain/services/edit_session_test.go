package services_test

import (
	"testing"

	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orangeChicken     = 1
	beijingBeef       = 2
	broccoliBeef      = 4
	honeyWalnutShrimp = 9
	chowMein          = 15
	friedRice         = 16
	whiteRice         = 17
	superGreens       = 18
	cocaCola          = 24
)

func newComposer(t *testing.T) *services.Composer {
	t.Helper()
	catalog := menu.DefaultCatalog()
	c, err := services.NewComposer(catalog, services.NewPriceCalculator(catalog.PriceBook()))
	require.NoError(t, err)
	return c
}

// commitBowl commits Fried Rice + Orange Chicken ($9.80).
func commitBowl(t *testing.T, c *services.Composer) order.Line {
	t.Helper()
	e := c.Engine()
	require.NoError(t, e.SetCategory(menu.Bowl))
	require.NoError(t, e.SelectSide(friedRice))
	require.NoError(t, e.SelectEntreeUnit(orangeChicken))
	line, err := c.Commit()
	require.NoError(t, err)
	return line
}

func lineByID(t *testing.T, c *services.Composer, id order.LineID) order.Line {
	t.Helper()
	for _, l := range c.Lines() {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("line %d not found", id)
	return order.Line{}
}

func recipeIDs(l order.Line) []int {
	ids := make([]int, len(l.Recipes))
	for i, r := range l.Recipes {
		ids[i] = r.ID
	}
	return ids
}

func TestNewEditSession(t *testing.T) {
	_, err := services.NewEditSession(nil, nil, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestEditSession_EnterAndExit(t *testing.T) {
	t.Run("enter loads the line into the engine", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Engine().SetCategory(menu.Drink))

		require.NoError(t, c.Edit(line.ID))

		id, editing := c.Editing()
		assert.True(t, editing)
		assert.Equal(t, line.ID, id)
		assert.Equal(t, menu.Bowl, c.Engine().Category())
		assert.Len(t, c.Engine().Recipes(), 2)
	})

	t.Run("enter then exit without changes leaves the line unchanged", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)

		require.NoError(t, c.Edit(line.ID))
		require.NoError(t, c.Edit(line.ID))

		_, editing := c.Editing()
		assert.False(t, editing)
		assert.True(t, c.Engine().Selection().IsEmpty(), "selection cleared on exit")
		assert.Equal(t, line, lineByID(t, c, line.ID))
	})

	t.Run("unknown line", func(t *testing.T) {
		c := newComposer(t)
		assert.ErrorIs(t, c.Edit(42), errs.ErrObjectNotFound)
	})
}

func TestEditSession_WriteBack(t *testing.T) {
	t.Run("complete changes are written back immediately", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))
		e := c.Engine()

		require.NoError(t, e.RemoveEntreeUnit(orangeChicken))
		require.NoError(t, e.SelectEntreeUnit(honeyWalnutShrimp))

		got := lineByID(t, c, line.ID)
		assert.Equal(t, []int{friedRice, honeyWalnutShrimp}, recipeIDs(got))
		assert.Equal(t, "10.30", got.Price.String())
		assert.Len(t, c.Lines(), 1, "editing never creates lines")
	})

	t.Run("incomplete selection keeps the last checkpoint", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))

		require.NoError(t, c.Engine().RemoveEntreeUnit(orangeChicken))

		got := lineByID(t, c, line.ID)
		assert.Equal(t, []int{friedRice, orangeChicken}, recipeIDs(got))
		assert.Equal(t, "9.80", got.Price.String())
	})

	t.Run("clearing everything restores the last checkpoint", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))
		e := c.Engine()

		// New checkpoint: White Steamed Rice + Orange Chicken.
		require.NoError(t, e.RemoveSideUnit(friedRice))
		require.NoError(t, e.SelectSide(whiteRice))
		require.Equal(t, []int{whiteRice, orangeChicken}, recipeIDs(lineByID(t, c, line.ID)))

		require.NoError(t, e.RemoveSideUnit(whiteRice))
		require.NoError(t, e.RemoveEntreeUnit(orangeChicken))
		assert.Equal(t, []int{whiteRice, orangeChicken}, recipeIDs(lineByID(t, c, line.ID)))

		require.NoError(t, c.Edit(line.ID))
		got := lineByID(t, c, line.ID)
		assert.Equal(t, []int{whiteRice, orangeChicken}, recipeIDs(got))
		assert.Equal(t, "9.80", got.Price.String())
	})

	t.Run("reset while editing restores", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))

		c.Engine().Reset()

		assert.Equal(t, line, lineByID(t, c, line.ID))
		_, editing := c.Editing()
		assert.True(t, editing)
	})

	t.Run("half sides are tracked through edits", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))

		require.NoError(t, c.Engine().SelectSide(chowMein))

		got := lineByID(t, c, line.ID)
		require.Len(t, got.Recipes, 3)
		assert.True(t, got.Recipes[0].Half)
		assert.True(t, got.Recipes[1].Half)
	})
}

func TestEditSession_CategorySwitch(t *testing.T) {
	t.Run("switching while empty restores then leaves edit mode", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))
		c.Engine().Reset()

		require.NoError(t, c.Engine().SetCategory(menu.Drink))

		_, editing := c.Editing()
		assert.False(t, editing)
		assert.Equal(t, line, lineByID(t, c, line.ID))
	})

	t.Run("switching while non-empty abandons edit mode", func(t *testing.T) {
		c := newComposer(t)
		line := commitBowl(t, c)
		require.NoError(t, c.Edit(line.ID))
		require.NoError(t, c.Engine().SelectSide(chowMein))
		edited := lineByID(t, c, line.ID)

		require.NoError(t, c.Engine().SetCategory(menu.Drink))
		require.NoError(t, c.Engine().SelectSingleton(cocaCola, nil))

		_, editing := c.Editing()
		assert.False(t, editing)
		assert.Len(t, c.Lines(), 1)
		assert.Equal(t, edited, lineByID(t, c, line.ID))
	})
}
