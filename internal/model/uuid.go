package model

import "github.com/google/uuid"

// NewID creates a new UUID string for entity identifiers.
func NewID() string {
	return uuid.New().String()
}
