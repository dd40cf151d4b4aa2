package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go driver
)

// OpenSQLite opens a SQLite database with WAL mode, a busy timeout and
// foreign keys on every pooled connection. A single connection serializes
// writers, which SQLite requires anyway.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(ON)",
		path, (5 * time.Second).Milliseconds())

	db, err := sql.Open(SQLite.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return db, nil
}

// OpenPostgres opens a PostgreSQL pool from a lib/pq connection string.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(Postgres.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open failed: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}
	return db, nil
}
