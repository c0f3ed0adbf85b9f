package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes the application reacts to.
const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// IsUndefinedTable reports whether err is a Postgres undefined_table error.
// Reads treat this as "feature not yet provisioned" and return empty
// results instead of failing.
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUndefinedTable
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
