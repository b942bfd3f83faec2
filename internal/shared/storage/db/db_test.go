package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"
)

type nopDriver struct{}

func (nopDriver) Open(name string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nil, errors.New("not supported") }
func (nopConn) Ping(ctx context.Context) error            { return nil }

var registerTestDriverOnce sync.Once

func withTestDriver(t *testing.T) {
	t.Helper()
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	t.Cleanup(func() { openDB = prev })
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", ServerOptions()); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestConnectAppliesOptions(t *testing.T) {
	withTestDriver(t)

	opts := ServerOptions().Merge(Options{MaxOpenConns: 7, PingTimeout: time.Second})
	conn, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
}

func TestMergeKeepsDefaultsForZeroFields(t *testing.T) {
	got := MigrateOptions().Merge(Options{ConnMaxIdleTime: 45 * time.Second})
	if got.MaxOpenConns != 1 {
		t.Fatalf("expected MaxOpenConns=1, got %d", got.MaxOpenConns)
	}
	if got.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", got.ConnMaxIdleTime)
	}
	if got.PingTimeout != 5*time.Second {
		t.Fatalf("expected PingTimeout=5s, got %s", got.PingTimeout)
	}
}
