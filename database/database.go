package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"

	"pizzeria-service/config"
)

var DB *sql.DB

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DSN builds the driver connection string. Migrations rely on multiStatements;
// clientFoundRows makes an UPDATE that changes nothing still report its match.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.MultiStatements = true
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func InitDB(cfg *config.Config) error {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping mysql %s: %w", cfg.DBHost, err)
	}

	DB = db
	log.Printf("Connected to MySQL %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	return nil
}

func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

// MigrationNames lists the embedded migrations in the order they are applied.
func MigrationNames() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// ApplyMigrations runs every embedded migration. They are written to be
// idempotent, so running them on an up-to-date schema is a no-op.
func ApplyMigrations(ctx context.Context, db *sql.DB, verbose bool) error {
	names, err := MigrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if verbose {
			log.Printf("Migration %s applied", name)
		}
	}
	return nil
}
