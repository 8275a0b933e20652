// Package snowflake opens database/sql handles on the gosnowflake driver.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// Option configures a Snowflake connection.
type Option func(*gosnowflake.Config)

// WithAccount sets the account identifier, e.g. "myorg-acct1".
func WithAccount(account string) Option {
	return func(c *gosnowflake.Config) {
		c.Account = account
	}
}

// WithCredentials sets user and password.
func WithCredentials(user, password string) Option {
	return func(c *gosnowflake.Config) {
		c.User = user
		c.Password = password
	}
}

// WithNamespace sets the default database and schema.
func WithNamespace(database, schema string) Option {
	return func(c *gosnowflake.Config) {
		c.Database = database
		c.Schema = schema
	}
}

// WithWarehouse sets the session's virtual warehouse.
func WithWarehouse(warehouse string) Option {
	return func(c *gosnowflake.Config) {
		c.Warehouse = warehouse
	}
}

// WithRole sets the session role.
func WithRole(role string) Option {
	return func(c *gosnowflake.Config) {
		c.Role = role
	}
}

// WithLoginTimeout bounds authentication.
func WithLoginTimeout(d time.Duration) Option {
	return func(c *gosnowflake.Config) {
		c.LoginTimeout = d
	}
}

// DSN renders the connection string for the given options.
func DSN(opts ...Option) (string, error) {
	cfg := &gosnowflake.Config{LoginTimeout: 60 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Account == "" {
		return "", fmt.Errorf("account is required")
	}
	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("snowflake dsn: %w", err)
	}
	return dsn, nil
}

// Open returns a pinged *sql.DB. Logging in does not require a running warehouse.
func Open(ctx context.Context, opts ...Option) (*sql.DB, error) {
	dsn, err := DSN(opts...)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("snowflake open: %w", err)
	}
	db.SetMaxOpenConns(2)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() // best-effort close
		return nil, fmt.Errorf("snowflake ping: %w", err)
	}
	return db, nil
}
