package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pizzeria-service/models"
)

func (r *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT `key`, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer closeRows(rows)

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (r *Repository) SaveSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO settings (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// Cart is the server-side copy of a customer's cart and order notes.
type Cart struct {
	Items []models.CartItem `json:"items"`
	Notes string            `json:"notes"`
}

// GetCart returns an empty cart when phone has none stored.
func (r *Repository) GetCart(ctx context.Context, phone string) (Cart, error) {
	var (
		items []byte
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT items, notes FROM carts WHERE phone = ?`, phone).Scan(&items, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("query cart %s: %w", phone, err)
	}

	c := Cart{Notes: notes.String}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return Cart{}, fmt.Errorf("decode cart %s: %w", phone, err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (r *Repository) SaveCart(ctx context.Context, phone string, c Cart) error {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO carts (phone, items, notes) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE items = VALUES(items), notes = VALUES(notes)`,
		phone, itemsJSON, c.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert cart %s: %w", phone, err)
	}
	return nil
}

func (r *Repository) DeleteCart(ctx context.Context, phone string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE phone = ?`, phone); err != nil {
		return fmt.Errorf("delete cart %s: %w", phone, err)
	}
	return nil
}
