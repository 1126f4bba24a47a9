package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pizzeria-service/models"
)

// GetUser returns nil and no error when no profile exists for phone.
func (r *Repository) GetUser(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT phone, name, points, orders_count, level, is_admin FROM users WHERE phone = ?`, phone,
	).Scan(&u.Phone, &u.Name, &u.Points, &u.OrdersCount, &u.Level, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", phone, err)
	}
	return &u, nil
}

// SaveUser upserts the profile keyed by phone, overwriting every field.
func (r *Repository) SaveUser(ctx context.Context, u models.User) error {
	level := u.Level
	if level == "" {
		level = models.LevelBronze
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (phone, name, points, orders_count, level, is_admin) VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE name = VALUES(name), points = VALUES(points), orders_count = VALUES(orders_count),
		 level = VALUES(level), is_admin = VALUES(is_admin)`,
		u.Phone, u.Name, u.Points, u.OrdersCount, string(level), u.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.Phone, err)
	}
	return nil
}
