package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/config"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

type dialect struct {
	driver  string
	breaker string
	setup   []string
	get     string
	set     string
}

var postgresDialect = dialect{
	driver:  "postgres",
	breaker: "PostgreSQL-Store",
	setup: []string{`
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	},
	get: `SELECT value FROM kv_store WHERE key = $1`,
	set: `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

var sqliteDialect = dialect{
	driver:  "sqlite",
	breaker: "SQLite-Store",
	setup: []string{
		`PRAGMA journal_mode=WAL`,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	get: `SELECT value FROM kv_store WHERE key = ?`,
	set: `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

// SQLStore implements ports.KeyValueStore on a single kv_store table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	cb      *gobreaker.CircuitBreaker
}

var _ ports.KeyValueStore = (*SQLStore)(nil)

// OpenPostgres connects with a lib/pq connection string.
func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*SQLStore, error) {
	return openSQL(ctx, postgresDialect, dsn, logger)
}

// OpenSQLite opens (and creates) a database file.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLStore, error) {
	return openSQL(ctx, sqliteDialect, path, logger)
}

func openSQL(ctx context.Context, d dialect, dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == "sqlite" {
		// one writer keeps SQLite from returning SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range d.setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init %s store: %w", d.driver, err)
		}
	}
	return &SQLStore{
		db:      db,
		dialect: d,
		cb:      config.NewCircuitBreaker(d.breaker, logger),
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	res, err := s.cb.Execute(func() (interface{}, error) {
		var value string
		err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return lookup{}, nil
		}
		if err != nil {
			return nil, err
		}
		return lookup{value: value, found: true}, nil
	})
	metrics.ObserveStoreOp(s.dialect.driver, "get", time.Since(start), err)
	if err != nil {
		return "", false, err
	}
	v := res.(lookup)
	return v.value, v.found, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	_, err := s.cb.Execute(func() (interface{}, error) {
		var updatedAt any = time.Now().UTC()
		if s.dialect.driver == "sqlite" {
			updatedAt = time.Now().UTC().Format(time.RFC3339Nano)
		}
		_, err := s.db.ExecContext(ctx, s.dialect.set, key, value, updatedAt)
		return nil, err
	})
	metrics.ObserveStoreOp(s.dialect.driver, "set", time.Since(start), err)
	return err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
