// Package catalog serves the menu, categories and delivery zones, falling back
// to a built-in catalog when the backend cannot be reached.
package catalog

import (
	"context"
	"fmt"
	"log"

	"pizzeria-service/models"
)

// Source is the read side of the backend the catalog is loaded from.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListZones(ctx context.Context) ([]models.DeliveryZone, error)
	ListOrders(ctx context.Context, limit int) ([]models.SaleRecord, error)
}

// Seeder writes the built-in catalog into an empty backend.
type Seeder interface {
	CreateProduct(ctx context.Context, p models.Product) error
	CreateCategory(ctx context.Context, c models.Category) error
	CreateZone(ctx context.Context, z models.DeliveryZone) error
}

type Snapshot struct {
	Products   []models.Product      `json:"products"`
	Categories []models.Category     `json:"categories"`
	Zones      []models.DeliveryZone `json:"zones"`
	Orders     []models.SaleRecord   `json:"orders"`
	// Offline is set when the snapshot is the built-in catalog because the
	// backend failed.
	Offline bool `json:"offline"`
}

// OfflineSnapshot is the built-in catalog with no orders.
func OfflineSnapshot() Snapshot {
	return Snapshot{
		Products:   DefaultProducts(),
		Categories: DefaultCategories(),
		Zones:      DefaultZones(),
		Orders:     []models.SaleRecord{},
		Offline:    true,
	}
}

type Loader struct {
	source     Source
	seeder     Seeder
	orderLimit int
}

// NewLoader returns a Loader reading from src. seeder may be nil, in which
// case empty tables are served as defaults without being written back.
func NewLoader(src Source, seeder Seeder, orderLimit int) *Loader {
	return &Loader{source: src, seeder: seeder, orderLimit: orderLimit}
}

// Load fetches the whole catalog plus recent orders. Any fetch failure yields
// OfflineSnapshot and no error. Empty tables are seeded with the defaults.
func (l *Loader) Load(ctx context.Context) Snapshot {
	snap, err := l.fetch(ctx)
	if err != nil {
		log.Printf("Backend unavailable, using offline catalog: %v", err)
		return OfflineSnapshot()
	}

	if len(snap.Products) == 0 {
		snap.Products = DefaultProducts()
		l.seed(ctx, "products", func() error {
			for _, p := range snap.Products {
				if err := l.seeder.CreateProduct(ctx, p); err != nil {
					return fmt.Errorf("product %s: %w", p.ID, err)
				}
			}
			return nil
		})
	}
	if len(snap.Categories) == 0 {
		snap.Categories = DefaultCategories()
		l.seed(ctx, "categories", func() error {
			for _, c := range snap.Categories {
				if err := l.seeder.CreateCategory(ctx, c); err != nil {
					return fmt.Errorf("category %s: %w", c.ID, err)
				}
			}
			return nil
		})
	}
	if len(snap.Zones) == 0 {
		snap.Zones = DefaultZones()
		l.seed(ctx, "zones", func() error {
			for _, z := range snap.Zones {
				if err := l.seeder.CreateZone(ctx, z); err != nil {
					return fmt.Errorf("zone %s: %w", z.ID, err)
				}
			}
			return nil
		})
	}
	if snap.Orders == nil {
		snap.Orders = []models.SaleRecord{}
	}
	return snap
}

func (l *Loader) fetch(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Products, err = l.source.ListProducts(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list products: %w", err)
	}
	if snap.Categories, err = l.source.ListCategories(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list categories: %w", err)
	}
	if snap.Zones, err = l.source.ListZones(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list zones: %w", err)
	}
	if snap.Orders, err = l.source.ListOrders(ctx, l.orderLimit); err != nil {
		return Snapshot{}, fmt.Errorf("list orders: %w", err)
	}
	return snap, nil
}

// seed runs fn when a seeder is configured. Seeding failures are logged only;
// the defaults are served either way.
func (l *Loader) seed(ctx context.Context, what string, fn func() error) {
	if l.seeder == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("Failed to seed %s: %v", what, err)
		return
	}
	log.Printf("Seeded default %s", what)
}

// FindProduct returns the product with id, if any.
func FindProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// FindZone returns the zone with id, if any.
func FindZone(zones []models.DeliveryZone, id string) (models.DeliveryZone, bool) {
	for _, z := range zones {
		if z.ID == id {
			return z, true
		}
	}
	return models.DeliveryZone{}, false
}

// ActiveProducts filters out products hidden from ordering.
func ActiveProducts(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}
