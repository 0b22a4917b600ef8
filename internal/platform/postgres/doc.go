// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in the store package. All implementations accept a
// store.DBTX so they can run against either a connection pool or a
// transaction.
package postgres
