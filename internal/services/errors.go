// internal/services/errors.go
package services

import (
	"errors"
	"strings"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrUpstreamFetch = errors.New("feed source unreachable or malformed")
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver does not export a typed error for this, so the
// message is the only reliable signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
