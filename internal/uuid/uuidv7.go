// Package uuid generates the request ids that tie log lines together.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7. Its leading 48 bits are a millisecond timestamp, so
// ids sort by creation time in the logs.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
