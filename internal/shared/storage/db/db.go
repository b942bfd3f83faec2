package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
)

// ErrNoDatabaseURL is returned by Connect when no URL is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

// Options controls database pool and connectivity behavior.
// Zero fields mean "keep the default".
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// ServerOptions returns defaults for the long-running API process.
func ServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// MigrateOptions returns defaults for the one-shot migrate command.
func MigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// Merge returns o with every positive field of override applied.
func (o Options) Merge(override Options) Options {
	if override.MaxOpenConns > 0 {
		o.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		o.MaxIdleConns = override.MaxIdleConns
	}
	if override.ConnMaxLifetime > 0 {
		o.ConnMaxLifetime = override.ConnMaxLifetime
	}
	if override.ConnMaxIdleTime > 0 {
		o.ConnMaxIdleTime = override.ConnMaxIdleTime
	}
	if override.PingTimeout > 0 {
		o.PingTimeout = override.PingTimeout
	}
	return o
}

// Connect opens a *sql.DB for databaseURL, applies the pool options and pings it.
// The returned handle is shared by every repository in the process.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}

	conn, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(conn, opts)

	if err := Ping(ctx, conn, opts.PingTimeout); err != nil {
		_ = conn.Close()
		return nil, err
	}

	stats := conn.Stats()
	log.Printf("db connected: max_open=%d open=%d idle=%d", stats.MaxOpenConnections, stats.OpenConnections, stats.Idle)
	return conn, nil
}

// Ping checks connectivity within timeout (5s when unset).
func Ping(ctx context.Context, conn *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func applyOptions(conn *sql.DB, opts Options) {
	opts = ServerOptions().Merge(opts)
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}
