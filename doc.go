// Package hexa is the composition root of an order service laid out as
// Ports & Adapters.
//
// The application core (pkg/core) owns the order vocabulary, its rules and
// three ports: persistence, payment and notification. It never imports an
// adapter. This package picks the adapters by name and plugs them in, so the
// same use cases run against an in-memory map in tests and against SQLite,
// PostgreSQL, BoltDB, Badger, Redis or plain YAML files in production.
//
// Adapters:
//
//   - Persistence: memory, fs (YAML documents), sqlite, postgres, bolt, badger, redis.
//   - Payment: mock (prints the charge) or stripe (HTTP).
//   - Notification: console, memory, log (slog) or sendgrid (HTTP).
//
// Usage:
//
//	inst, err := hexa.New(ctx, "./data",
//		hexa.WithAdapter(hexa.AdapterSQLite),
//		hexa.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer inst.Close()
//
//	order, err := inst.Service.PlaceOrder(ctx, []core.LineItem{{Name: "Rust Book", Price: 4999}})
package hexa
