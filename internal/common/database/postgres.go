// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"property-matching/internal/common/config"
	"property-matching/internal/common/errors"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB           *sql.DB
	QueryTimeout time.Duration
}

// NewPostgres creates a new PostgreSQL client. The pool is opened lazily; use
// Ping to verify the server is reachable.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db, QueryTimeout: config.GetDuration(cfg.QueryTimeout)}, nil
}

// NewPostgresFromDB wraps an existing pool, e.g. a sqlmock connection.
func NewPostgresFromDB(db *sql.DB, queryTimeout time.Duration) *PostgresClient {
	return &PostgresClient{DB: db, QueryTimeout: queryTimeout}
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// WithQueryTimeout bounds ctx by the configured per-query timeout.
func (c *PostgresClient) WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.QueryTimeout)
}

// Query executes a query that returns rows
func (c *PostgresClient) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns at most one row
func (c *PostgresClient) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}
