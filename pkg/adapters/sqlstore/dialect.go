package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name       string
	DriverName string
	// Numbered placeholders ($1, $2) instead of '?'.
	Numbered bool
	// Row lock appended to the sequence read.
	LockClause string
}

var (
	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
	}
	Postgres = Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		Numbered:   true,
		LockClause: " FOR UPDATE",
	}
)

// rebind rewrites '?' placeholders for dialects that number them.
func (d Dialect) rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT PRIMARY KEY,
		total BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		name TEXT NOT NULL,
		price BIGINT NOT NULL,
		PRIMARY KEY (order_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS order_sequence (
		id INTEGER PRIMARY KEY,
		value BIGINT NOT NULL
	)`,
	`INSERT INTO order_sequence (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
}
