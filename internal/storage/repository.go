package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTimeout bounds every statement when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// SQLiteRepository is the single persisted store behind accounts and transactions.
// Each method is one SQL statement and therefore applies fully or not at all.
type SQLiteRepository struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string, timeout time.Duration) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := EnsureSchema(dbPath); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &SQLiteRepository{
		db:      db,
		timeout: timeout,
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// dsn escapes dbPath: SQLite reads file: names as URIs, so a raw '#', '?'
// or '%' would open a different file.
func dsn(dbPath string) string {
	u := url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(dbPath),
		RawQuery: "_pragma=busy_timeout(5000)",
	}
	return u.String()
}
