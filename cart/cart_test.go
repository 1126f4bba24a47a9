package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-service/models"
)

var (
	margherita = models.Product{
		ID: "1", Name: "MARGUERITA", Category: models.CategoryPizzas,
		Prices: map[string]int64{models.SizeFamiliar: 800, models.SizeMedium: 750, models.SizeSmall: 500},
	}
	seafood = models.Product{
		ID: "15", Name: "MARISCO", Category: models.CategoryPizzas,
		Prices: map[string]int64{models.SizeFamiliar: 1200, models.SizeMedium: 1000},
	}
	cola = models.Product{
		ID: "d2", Name: "COCA-COLA", Category: models.CategoryDrinks,
		Prices: map[string]int64{models.SizeUnit: 300},
	}
)

func frozenClock() func() time.Time {
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestAddCapturesPrice(t *testing.T) {
	c := New(nil)
	p := margherita.Clone()

	item, err := c.Add(p, models.SizeFamiliar)
	require.NoError(t, err)
	assert.Equal(t, int64(800), item.Price)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.NeedsBox)

	p.Prices[models.SizeFamiliar] = 2000
	assert.Equal(t, int64(800), c.Items()[0].Price)
}

func TestAddDrinkNeedsNoBox(t *testing.T) {
	c := New(nil)
	item, err := c.Add(cola, models.SizeUnit)
	require.NoError(t, err)
	assert.False(t, item.NeedsBox)
}

func TestAddInactiveProductIsRejected(t *testing.T) {
	c := New(nil)
	p := margherita.Clone()
	p.IsActive = models.Bool(false)

	_, err := c.Add(p, models.SizeFamiliar)
	assert.ErrorIs(t, err, ErrInactiveProduct)
	assert.Equal(t, 0, c.Len())
}

func TestAddUnknownSizeIsRejected(t *testing.T) {
	c := New(nil)
	_, err := c.Add(seafood, models.SizeSmall)
	assert.ErrorIs(t, err, ErrSizeUnavailable)
	assert.Equal(t, 0, c.Len())
}

func TestUniqueIDsWithinSameMillisecond(t *testing.T) {
	c := New(nil, WithClock(frozenClock()))
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		item, err := c.Add(margherita, models.SizeFamiliar)
		require.NoError(t, err)
		assert.False(t, seen[item.UniqueID], "duplicate id %s", item.UniqueID)
		seen[item.UniqueID] = true
	}
	half, err := c.AddHalfAndHalf(&margherita, &seafood, models.SizeFamiliar)
	require.NoError(t, err)
	assert.False(t, seen[half.UniqueID])
	assert.Equal(t, 6, c.Len())
}

func TestAddHalfAndHalf(t *testing.T) {
	c := New(nil)

	_, err := c.AddHalfAndHalf(&margherita, nil, models.SizeFamiliar)
	assert.ErrorIs(t, err, ErrHalfNotSelected)
	_, err = c.AddHalfAndHalf(nil, &seafood, models.SizeFamiliar)
	assert.ErrorIs(t, err, ErrHalfNotSelected)
	assert.Equal(t, 0, c.Len())

	item, err := c.AddHalfAndHalf(&margherita, &seafood, models.SizeMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1000), item.Price)
	assert.True(t, item.IsHalfAndHalf)
	assert.True(t, item.NeedsBox)
	assert.Equal(t, "Meio MARGUERITA / Meio MARISCO", item.Name)
	assert.Equal(t, item.ID, item.UniqueID)
	require.NotNil(t, item.LeftHalf)
	assert.Equal(t, "1", item.LeftHalf.ID)
}

func TestAddHalfAndHalfMissingSizeIsRejected(t *testing.T) {
	c := New(nil)
	_, err := c.AddHalfAndHalf(&margherita, &seafood, models.SizeSmall)
	assert.ErrorIs(t, err, ErrSizeUnavailable)
	assert.Equal(t, 0, c.Len())
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	c := New(nil)
	item, err := c.Add(margherita, models.SizeFamiliar)
	require.NoError(t, err)

	deltas := []int{+2, -1, -5, -100, +1, -1, -1}
	for _, d := range deltas {
		assert.True(t, c.UpdateQuantity(item.UniqueID, d))
		assert.GreaterOrEqual(t, c.Items()[0].Quantity, 1)
	}
	assert.Equal(t, 1, c.Items()[0].Quantity)

	c.UpdateQuantity(item.UniqueID, 3)
	assert.Equal(t, 4, c.Items()[0].Quantity)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	c := New(nil)
	_, err := c.Add(margherita, models.SizeFamiliar)
	require.NoError(t, err)
	before := c.Items()

	assert.False(t, c.UpdateQuantity("nope", 3))
	assert.False(t, c.Remove("nope"))
	assert.False(t, c.ToggleExtra("nope", models.Extra{Name: "Ovo", Price: 50}))
	assert.Equal(t, before, c.Items())
}

func TestRemoveAndClear(t *testing.T) {
	c := New(nil)
	a, _ := c.Add(margherita, models.SizeFamiliar)
	b, _ := c.Add(cola, models.SizeUnit)

	assert.True(t, c.Remove(a.UniqueID))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, b.UniqueID, c.Items()[0].UniqueID)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestToggleExtra(t *testing.T) {
	c := New(nil)
	item, _ := c.Add(margherita, models.SizeFamiliar)
	cheese := models.Extra{Name: "Queijo Extra", Price: 100}
	egg := models.Extra{Name: "Ovo", Price: 50}

	c.ToggleExtra(item.UniqueID, cheese)
	c.ToggleExtra(item.UniqueID, egg)
	assert.Equal(t, []models.Extra{cheese, egg}, c.Items()[0].Extras)

	c.ToggleExtra(item.UniqueID, cheese)
	assert.Equal(t, []models.Extra{egg}, c.Items()[0].Extras)
}

func TestItemsIsACopy(t *testing.T) {
	c := New(nil)
	item, _ := c.Add(margherita, models.SizeFamiliar)
	c.ToggleExtra(item.UniqueID, models.Extra{Name: "Ovo", Price: 50})

	items := c.Items()
	items[0].Quantity = 99
	items[0].Extras[0].Price = 0

	fresh := c.Items()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, int64(50), fresh[0].Extras[0].Price)
}

func TestRestoredCartKeepsIDsUnique(t *testing.T) {
	first := New(nil, WithClock(frozenClock()))
	item, err := first.Add(margherita, models.SizeFamiliar)
	require.NoError(t, err)

	restored := New(first.Items(), WithClock(frozenClock()))
	again, err := restored.Add(margherita, models.SizeFamiliar)
	require.NoError(t, err)
	assert.NotEqual(t, item.UniqueID, again.UniqueID)
}
