package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pizzeria-service/models"
)

const orderColumns = `id, timestamp, total, COALESCE(items_detail, ''), items, customer_name, user_phone, zone_name, status, payment_method`

func scanOrder(s scanner) (models.SaleRecord, error) {
	var (
		o     models.SaleRecord
		items []byte
	)
	err := s.Scan(&o.ID, &o.Timestamp, &o.Total, &o.ItemsDetail, &items,
		&o.CustomerName, &o.CustomerPhone, &o.ZoneName, &o.Status, &o.PaymentMethod)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	if o.Items == nil {
		o.Items = []models.CartItem{}
	}
	o.ItemsCount = len(o.Items)
	return o, nil
}

// ListOrders returns the newest sales first, at most limit of them.
func (r *Repository) ListOrders(ctx context.Context, limit int) ([]models.SaleRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer closeRows(rows)

	sales := []models.SaleRecord{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		sales = append(sales, o)
	}
	return sales, rows.Err()
}

func (r *Repository) GetOrder(ctx context.Context, id string) (models.SaleRecord, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

func (r *Repository) CreateOrder(ctx context.Context, sale models.SaleRecord) error {
	items := sale.Items
	if items == nil {
		items = []models.CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_phone, customer_name, zone_name, total, status, payment_method, items, items_detail, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.CustomerPhone, sale.CustomerName, sale.ZoneName, sale.Total,
		string(sale.Status), string(sale.PaymentMethod), itemsJSON, sale.ItemsDetail, sale.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", sale.ID, err)
	}
	return nil
}

// SaveOrder lets the repository act as the checkout pipeline's writer.
func (r *Repository) SaveOrder(ctx context.Context, sale models.SaleRecord) error {
	return r.CreateOrder(ctx, sale)
}

// UpdateOrderStatus overwrites the status; the last write wins.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return affected(res)
}
