// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// scheduling and analytics logic, so the domain packages never depend
// on a specific database.
package store
