package utils

import "github.com/google/uuid"

// NewID returns a random client identifier.
func NewID() string {
	return uuid.NewString()
}
