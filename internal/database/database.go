package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/wichananm65/smoothie-order-form/internal/config"
)

const (
	driverName      = "pgx"
	applicationName = "smoothie-order-form"
)

// Open prepares the connection pool. It does not dial the store; the first
// query (or Ping) does. A store that is down at startup therefore surfaces as
// a catalog read failure instead of stopping the process.
func Open(cfg config.Store) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

// Ping checks the store is reachable within the configured connect timeout.
func Ping(ctx context.Context, db *sql.DB, cfg config.Store) error {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

// DSN turns the store credentials into a pgx connection URL. Account is the
// host[:port] of the server, Schema becomes the search_path and Role is
// applied through the startup options. Warehouse has no Postgres counterpart
// and is not part of the URL.
func DSN(cfg config.Store) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   cfg.Account,
		Path:   "/" + cfg.Database,
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}

	q := url.Values{}
	q.Set("application_name", applicationName)
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	if cfg.Role != "" {
		q.Set("options", "-c role="+cfg.Role)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// QuoteTable quotes a possibly schema-qualified table name such as
// "smoothies.public.orders", one identifier per dot-separated part. Table
// names come from configuration only; user input never reaches this function.
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}
