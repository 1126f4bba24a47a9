// Package cart holds the ordered line items of one ordering session.
package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"pizzeria-service/models"
	"pizzeria-service/pricing"
)

var (
	ErrInactiveProduct = errors.New("product is temporarily unavailable")
	ErrHalfNotSelected = errors.New("select both halves first")
	ErrSizeUnavailable = errors.New("size not offered for this product")
)

type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	now   func() time.Time
	last  int64
}

type Option func(*Cart)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

// New returns a cart restored from items, which are copied.
func New(items []models.CartItem, opts ...Option) *Cart {
	c := &Cart{
		items: models.CloneItems(items),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, item := range c.items {
		if ts := stampOf(item.UniqueID); ts > c.last {
			c.last = ts
		}
	}
	return c
}

// stampOf extracts the trailing millisecond stamp of a unique id, 0 if none.
func stampOf(uniqueID string) int64 {
	i := strings.LastIndexByte(uniqueID, '-')
	if i < 0 {
		return 0
	}
	ts, err := strconv.ParseInt(uniqueID[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

// stamp returns a strictly increasing millisecond timestamp so ids minted
// within the same millisecond do not collide.
func (c *Cart) stamp() int64 {
	ts := c.now().UnixMilli()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}

// Add appends one unit of product in the given size. The price is captured
// now and never re-read from the catalog.
func (c *Cart) Add(product models.Product, size string) (models.CartItem, error) {
	if !product.Active() {
		return models.CartItem{}, ErrInactiveProduct
	}
	price, ok := product.PriceFor(size)
	if !ok {
		return models.CartItem{}, fmt.Errorf("%s %s: %w", product.Name, size, ErrSizeUnavailable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item := models.CartItem{
		ID:       product.ID,
		UniqueID: fmt.Sprintf("%s-%s-%d", product.ID, size, c.stamp()),
		Name:     product.Name,
		Price:    price,
		Size:     size,
		Quantity: 1,
		Extras:   []models.Extra{},
		NeedsBox: product.Category == models.CategoryPizzas,
	}
	c.items = append(c.items, item)
	return item.Clone(), nil
}

// AddHalfAndHalf appends a composite pizza charged at the price of the
// more expensive half. Both halves must offer the size.
func (c *Cart) AddHalfAndHalf(left, right *models.Product, size string) (models.CartItem, error) {
	if left == nil || right == nil {
		return models.CartItem{}, ErrHalfNotSelected
	}
	for _, side := range []*models.Product{left, right} {
		if !side.Active() {
			return models.CartItem{}, fmt.Errorf("%s: %w", side.Name, ErrInactiveProduct)
		}
		if _, ok := side.PriceFor(size); !ok {
			return models.CartItem{}, fmt.Errorf("%s %s: %w", side.Name, size, ErrSizeUnavailable)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := fmt.Sprintf("half-%d", c.stamp())
	l, r := left.Clone(), right.Clone()
	item := models.CartItem{
		ID:            id,
		UniqueID:      id,
		Name:          fmt.Sprintf("Meio %s / Meio %s", left.Name, right.Name),
		Price:         pricing.HalfAndHalfPrice(*left, *right, size),
		Size:          size,
		Quantity:      1,
		IsHalfAndHalf: true,
		LeftHalf:      &l,
		RightHalf:     &r,
		Extras:        []models.Extra{},
		NeedsBox:      true,
	}
	c.items = append(c.items, item)
	return item.Clone(), nil
}

// UpdateQuantity adds delta to the item's quantity, never going below 1.
// It reports whether the item exists.
func (c *Cart) UpdateQuantity(uniqueID string, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(uniqueID)
	if i < 0 {
		return false
	}
	q := c.items[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.items[i].Quantity = q
	return true
}

// ToggleExtra adds extra to the item, or removes it when an extra with the
// same name is already there.
func (c *Cart) ToggleExtra(uniqueID string, extra models.Extra) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(uniqueID)
	if i < 0 {
		return false
	}
	extras := c.items[i].Extras
	for j, e := range extras {
		if e.Name == extra.Name {
			c.items[i].Extras = append(extras[:j:j], extras[j+1:]...)
			return true
		}
	}
	c.items[i].Extras = append(extras, extra)
	return true
}

func (c *Cart) Remove(uniqueID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(uniqueID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a deep copy of the cart contents in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneItems(c.items)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) index(uniqueID string) int {
	for i := range c.items {
		if c.items[i].UniqueID == uniqueID {
			return i
		}
	}
	return -1
}
