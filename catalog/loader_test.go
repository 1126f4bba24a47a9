package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-service/models"
)

type fakeBackend struct {
	products   []models.Product
	categories []models.Category
	zones      []models.DeliveryZone
	orders     []models.SaleRecord
	listErr    error
	seedErr    error
	limit      int
}

func (f *fakeBackend) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeBackend) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeBackend) ListZones(context.Context) ([]models.DeliveryZone, error) {
	return f.zones, nil
}

func (f *fakeBackend) ListOrders(_ context.Context, limit int) ([]models.SaleRecord, error) {
	f.limit = limit
	return f.orders, nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, p models.Product) error {
	if f.seedErr != nil {
		return f.seedErr
	}
	f.products = append(f.products, p)
	return nil
}

func (f *fakeBackend) CreateCategory(_ context.Context, c models.Category) error {
	f.categories = append(f.categories, c)
	return nil
}

func (f *fakeBackend) CreateZone(_ context.Context, z models.DeliveryZone) error {
	f.zones = append(f.zones, z)
	return nil
}

func TestDefaults(t *testing.T) {
	products := DefaultProducts()
	assert.Len(t, products, 24)
	assert.Len(t, DefaultZones(), 36)
	assert.Len(t, Extras(), 7)
	assert.Equal(t, []models.Category{{ID: "PIZZAS", Name: "PIZZAS"}, {ID: "BEBIDAS", Name: "BEBIDAS"}}, DefaultCategories())

	mada, ok := FindProduct(products, "17")
	require.True(t, ok)
	_, hasMedium := mada.PriceFor(models.SizeMedium)
	assert.False(t, hasMedium)

	coke, ok := FindProduct(products, "d2")
	require.True(t, ok)
	assert.Equal(t, models.CategoryDrinks, coke.Category)
	price, _ := coke.PriceFor(models.SizeUnit)
	assert.Equal(t, int64(300), price)

	// callers get their own copies
	products[0].Prices[models.SizeFamiliar] = 1
	again, _ := FindProduct(DefaultProducts(), "1")
	assert.Equal(t, int64(800), again.Prices[models.SizeFamiliar])
}

func TestLoadOfflineOnError(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("dial tcp: connection refused")}
	snap := NewLoader(backend, backend, 200).Load(context.Background())

	assert.True(t, snap.Offline)
	assert.Len(t, snap.Products, 24)
	assert.Len(t, snap.Zones, 36)
	assert.Empty(t, snap.Orders)
	assert.NotNil(t, snap.Orders)
}

func TestLoadSeedsEmptyBackend(t *testing.T) {
	backend := &fakeBackend{}
	snap := NewLoader(backend, backend, 200).Load(context.Background())

	assert.False(t, snap.Offline)
	assert.Len(t, snap.Products, 24)
	assert.Len(t, backend.products, 24)
	assert.Len(t, backend.categories, 2)
	assert.Len(t, backend.zones, 36)
	assert.Equal(t, 200, backend.limit)
}

func TestLoadKeepsExistingData(t *testing.T) {
	backend := &fakeBackend{
		products:   []models.Product{{ID: "p1", Name: "ONLY", Category: models.CategoryPizzas, Prices: map[string]int64{"FAMILIAR": 900}}},
		categories: DefaultCategories(),
		zones:      []models.DeliveryZone{{ID: "z1", Name: "Terra Branca", Price: 50}},
		orders:     []models.SaleRecord{{ID: "sale-1"}},
	}
	snap := NewLoader(backend, backend, 10).Load(context.Background())

	require.Len(t, snap.Products, 1)
	assert.Equal(t, "ONLY", snap.Products[0].Name)
	assert.Len(t, snap.Zones, 1)
	assert.Len(t, snap.Orders, 1)
	assert.Len(t, backend.products, 1)
}

func TestLoadSeedFailureStillServesDefaults(t *testing.T) {
	backend := &fakeBackend{seedErr: errors.New("read-only")}
	snap := NewLoader(backend, backend, 200).Load(context.Background())

	assert.False(t, snap.Offline)
	assert.Len(t, snap.Products, 24)
}

func TestActiveProducts(t *testing.T) {
	products := []models.Product{
		{ID: "a"},
		{ID: "b", IsActive: models.Bool(false)},
		{ID: "c", IsActive: models.Bool(true)},
	}
	active := ActiveProducts(products)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "c", active[1].ID)
}
