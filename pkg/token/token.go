// Package token issues and verifies the per-booking cancellation secrets.
// Possession of the token is the sole cancellation credential; there is no
// account model behind it.
package token

import (
	"crypto/subtle"

	"github.com/google/uuid"
)

// Issue returns a new capability token: a version-4 UUID drawn from
// crypto/rand, canonically encoded. 122 bits of entropy makes guessing or
// enumeration computationally infeasible.
func Issue() string {
	return uuid.NewString()
}

// Match compares a stored token against a supplied one. The comparison is
// exact and constant-time. An empty stored token never matches anything,
// including an empty supplied token; bookings persisted before tokens were
// introduced must stay uncancellable through this path.
func Match(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
