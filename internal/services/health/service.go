package health

import (
	"context"
	"database/sql"
	"time"

	"ecotrack-backend/internal/shared/storage/db"
)

const defaultPingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB          *sql.DB
	PingTimeout time.Duration
}

// NewService constructs a new health service. A nil conn reports in-memory storage.
func NewService(conn *sql.DB, pingTimeout time.Duration) *Service {
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	return &Service{DB: conn, PingTimeout: pingTimeout}
}

// Status reports overall health and the storage backend state.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	if s.DB == nil {
		return map[string]any{"ok": true, "database": "memory"}, true
	}
	if err := db.Ping(ctx, s.DB, s.PingTimeout); err != nil {
		return map[string]any{"ok": false, "database": "down"}, false
	}
	return map[string]any{"ok": true, "database": "up"}, true
}
