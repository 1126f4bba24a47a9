package controllers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pizzeria-service/models"
	"pizzeria-service/repository"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	categories []models.Category
	products   []models.Product
	zones      []models.DeliveryZone
	orders     map[string]models.SaleRecord
	users      map[string]models.User
	settings   map[string]string
	carts      map[string]repository.Cart
	failOrders error
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[string]models.SaleRecord{},
		users:    map[string]models.User{},
		settings: map[string]string{},
		carts:    map[string]repository.Cart{},
	}
}

func (m *memStore) ListProducts(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Product{}, m.products...), nil
}

func (m *memStore) ListCategories(context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Category{}, m.categories...), nil
}

func (m *memStore) ListZones(context.Context) ([]models.DeliveryZone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.DeliveryZone{}, m.zones...), nil
}

func (m *memStore) ListOrders(_ context.Context, limit int) ([]models.SaleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SaleRecord, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CreateProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, p)
	return nil
}

func (m *memStore) CreateCategory(_ context.Context, c models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, c)
	return nil
}

func (m *memStore) CreateZone(_ context.Context, z models.DeliveryZone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones = append(m.zones, z)
	return nil
}

func (m *memStore) SaveOrder(ctx context.Context, sale models.SaleRecord) error {
	return m.CreateOrder(ctx, sale)
}

func (m *memStore) SaveUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Phone] = u
	return nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, repository.ErrNotFound
}

func (m *memStore) UpdateProduct(_ context.Context, id string, patch repository.ProductPatch) error {
	if patch.Empty() {
		return repository.ErrEmptyPatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID != id {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Prices != nil {
			p.Prices = patch.Prices
		}
		if patch.IsActive != nil {
			p.IsActive = models.Bool(*patch.IsActive)
		}
		m.products[i] = p
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) GetZone(_ context.Context, id string) (models.DeliveryZone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, z := range m.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return models.DeliveryZone{}, repository.ErrNotFound
}

func (m *memStore) UpdateZone(_ context.Context, id string, patch repository.ZonePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, z := range m.zones {
		if z.ID != id {
			continue
		}
		if patch.Price != nil {
			m.zones[i].Price = *patch.Price
		}
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) DeleteZone(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, z := range m.zones {
		if z.ID == id {
			m.zones = append(m.zones[:i], m.zones[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) GetOrder(_ context.Context, id string) (models.SaleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return o, repository.ErrNotFound
	}
	return o, nil
}

func (m *memStore) CreateOrder(_ context.Context, sale models.SaleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOrders != nil {
		return m.failOrders
	}
	m.orders[sale.ID] = sale
	return nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *memStore) GetUser(_ context.Context, phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[phone]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) ListSettings(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) SaveSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *memStore) GetCart(_ context.Context, phone string) (repository.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[phone]
	if !ok {
		return repository.Cart{Items: []models.CartItem{}}, nil
	}
	c.Items = models.CloneItems(c.Items)
	return c, nil
}

func (m *memStore) SaveCart(_ context.Context, phone string, c repository.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Items = models.CloneItems(c.Items)
	m.carts[phone] = c
	return nil
}

func (m *memStore) DeleteCart(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, phone)
	return nil
}

var errBoom = errors.New("boom")
