package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect holds the driver name and statements for one SQL engine.
// All engines share the table preferences(namespace, pref_key, value).
type Dialect struct {
	Name   string
	Driver string
	Schema string
	Select string
	Upsert string
}

var (
	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		Schema: `
			CREATE TABLE IF NOT EXISTS preferences (
				namespace  VARCHAR(191) NOT NULL,
				pref_key   VARCHAR(191) NOT NULL,
				value      LONGTEXT     NOT NULL,
				updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				PRIMARY KEY (namespace, pref_key)
			)`,
		Select: `SELECT value FROM preferences WHERE namespace = ? AND pref_key = ?`,
		Upsert: `
			INSERT INTO preferences (namespace, pref_key, value) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = NOW()`,
	}

	Postgres = Dialect{
		Name:   "postgres",
		Driver: "postgres",
		Schema: `
			CREATE TABLE IF NOT EXISTS preferences (
				namespace  TEXT        NOT NULL,
				pref_key   TEXT        NOT NULL,
				value      TEXT        NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (namespace, pref_key)
			)`,
		Select: `SELECT value FROM preferences WHERE namespace = $1 AND pref_key = $2`,
		Upsert: `
			INSERT INTO preferences (namespace, pref_key, value) VALUES ($1, $2, $3)
			ON CONFLICT (namespace, pref_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
	}

	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite3",
		Schema: `
			CREATE TABLE IF NOT EXISTS preferences (
				namespace  TEXT NOT NULL,
				pref_key   TEXT NOT NULL,
				value      TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (namespace, pref_key)
			)`,
		Select: `SELECT value FROM preferences WHERE namespace = ? AND pref_key = ?`,
		Upsert: `
			INSERT INTO preferences (namespace, pref_key, value) VALUES (?, ?, ?)
			ON CONFLICT (namespace, pref_key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	}
)

// SQLAdapter stores one preferences namespace as rows of the preferences table.
type SQLAdapter struct {
	db        *sql.DB
	dialect   Dialect
	namespace string
}

func NewSQLAdapter(db *sql.DB, dialect Dialect, namespace string) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: dialect, namespace: namespace}
}

// OpenSQL opens dsn with the dialect's driver, pings it and creates the
// preferences table if needed.
func OpenSQL(ctx context.Context, dialect Dialect, dsn, namespace string) (*SQLAdapter, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if dialect.Name == SQLite.Name {
		// one writer per file
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	adapter := NewSQLAdapter(db, dialect, namespace)
	if err := adapter.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return adapter, nil
}

func (a *SQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, a.dialect.Schema); err != nil {
		return fmt.Errorf("create preferences table: %w", err)
	}
	return nil
}

func (a *SQLAdapter) GetString(ctx context.Context, key, defValue string) (string, error) {
	var value string
	err := a.db.QueryRowContext(ctx, a.dialect.Select, a.namespace, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return defValue, nil
	}
	if err != nil {
		return "", fmt.Errorf("query preference %s: %w", key, err)
	}

	return value, nil
}

func (a *SQLAdapter) PutString(ctx context.Context, key, value string) error {
	if _, err := a.db.ExecContext(ctx, a.dialect.Upsert, a.namespace, key, value); err != nil {
		return fmt.Errorf("upsert preference %s: %w", key, err)
	}
	return nil
}

func (a *SQLAdapter) Close() error {
	return a.db.Close()
}
