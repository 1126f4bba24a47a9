// Package repository is the MySQL data layer behind the REST surface. Every
// write is a single statement; there are no transactions.
package repository

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmptyPatch = errors.New("nothing to update")
)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping() error {
	return r.db.Ping()
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
