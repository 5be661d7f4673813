package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation, optionally scoped to one constraint. Postgres names the violated
// index ("duplicate key value violates unique constraint ..."); sqlite (the
// test driver) reports "UNIQUE constraint failed: users.email" with no index
// name, so a unique violation carrying sqlite's phrasing matches even when it
// doesn't mention the constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	postgres := strings.Contains(msg, "duplicate key value")
	sqlite := strings.Contains(msg, "UNIQUE constraint failed")
	if !postgres && !sqlite {
		return false
	}
	if constraintName == "" {
		return true
	}
	return sqlite || strings.Contains(msg, constraintName)
}
