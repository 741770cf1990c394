// Package repository contains data access logic separated from HTTP handlers.
// Domain failures (missing rows, ownership mismatches, state conflicts) are
// reported as apperr values so handlers can serialize them without string
// matching; raw database errors are propagated untouched and surface to the
// client as a generic internal error.
package repository

import "strings"

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).  The driver does not expose a typed error for this, so the
// code is matched in the message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
