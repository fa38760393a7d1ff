// Package postgres provides PostgreSQL implementations of the store
// interfaces. Stores accept a store.DBTX so they run equally against a
// connection pool or an open transaction.
package postgres
