package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pizzeria-service/models"
)

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer closeRows(rows)

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, c models.Category) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("insert category %s: %w", c.ID, err)
	}
	return nil
}

const productColumns = `id, name, COALESCE(description, ''), prices, category_id, is_active`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (models.Product, error) {
	var (
		p      models.Product
		prices []byte
		active bool
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &prices, &p.Category, &active); err != nil {
		return p, err
	}
	if err := json.Unmarshal(prices, &p.Prices); err != nil {
		return p, fmt.Errorf("decode prices of %s: %w", p.ID, err)
	}
	p.IsActive = models.Bool(active)
	return p, nil
}

// ListProducts returns every product, hidden ones included, in insertion order.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeRows(rows)

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *Repository) CreateProduct(ctx context.Context, p models.Product) error {
	prices, err := json.Marshal(p.Prices)
	if err != nil {
		return fmt.Errorf("encode prices: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, prices, category_id, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, prices, p.Category, p.Active(),
	)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return nil
}

// ProductPatch holds the columns an operator may change. Nil fields are left alone.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Prices      map[string]int64 `json:"prices"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Prices == nil && p.Category == nil && p.IsActive == nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id string, patch ProductPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *patch.Description)
	}
	if patch.Prices != nil {
		prices, err := json.Marshal(patch.Prices)
		if err != nil {
			return fmt.Errorf("encode prices: %w", err)
		}
		sets, args = append(sets, "prices = ?"), append(args, prices)
	}
	if patch.Category != nil {
		sets, args = append(sets, "category_id = ?"), append(args, *patch.Category)
	}
	if patch.IsActive != nil {
		sets, args = append(sets, "is_active = ?"), append(args, *patch.IsActive)
	}
	if len(sets) == 0 {
		return ErrEmptyPatch
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	return affected(res)
}

func (r *Repository) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price, estimated_time FROM delivery_zones ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer closeRows(rows)

	zones := []models.DeliveryZone{}
	for rows.Next() {
		var z models.DeliveryZone
		if err := rows.Scan(&z.ID, &z.Name, &z.Price, &z.Time); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *Repository) GetZone(ctx context.Context, id string) (models.DeliveryZone, error) {
	var z models.DeliveryZone
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, estimated_time FROM delivery_zones WHERE id = ?`, id,
	).Scan(&z.ID, &z.Name, &z.Price, &z.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return z, ErrNotFound
	}
	return z, err
}

func (r *Repository) CreateZone(ctx context.Context, z models.DeliveryZone) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO delivery_zones (id, name, price, estimated_time) VALUES (?, ?, ?, ?)`,
		z.ID, z.Name, z.Price, z.Time,
	)
	if err != nil {
		return fmt.Errorf("insert zone %s: %w", z.ID, err)
	}
	return nil
}

type ZonePatch struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
	Time  *string `json:"time"`
}

func (r *Repository) UpdateZone(ctx context.Context, id string, patch ZonePatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Price != nil {
		sets, args = append(sets, "price = ?"), append(args, *patch.Price)
	}
	if patch.Time != nil {
		sets, args = append(sets, "estimated_time = ?"), append(args, *patch.Time)
	}
	if len(sets) == 0 {
		return ErrEmptyPatch
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE delivery_zones SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update zone %s: %w", id, err)
	}
	return affected(res)
}

func (r *Repository) DeleteZone(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM delivery_zones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete zone %s: %w", id, err)
	}
	return affected(res)
}
