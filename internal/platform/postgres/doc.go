// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations accept a store.DBTX, so the same store can
// run its queries on a plain connection or inside a transaction supplied by
// the caller.
package postgres
