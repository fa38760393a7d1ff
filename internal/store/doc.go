// Package store defines persistence interfaces for the application's
// entities, shared error values, and transaction helpers. Concrete
// implementations live in internal/platform/postgres.
package store
