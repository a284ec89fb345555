package testutil

import (
	"github.com/google/uuid"
)

// MakeID generates a unique UUID for test entities.
func MakeID() string {
	return uuid.NewString()
}
