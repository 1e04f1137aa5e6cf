package session

import "github.com/google/uuid"

// NewID mints a fresh session identifier: the 36-character string form of
// a random 128-bit value.
func NewID() string {
	return uuid.NewString()
}
