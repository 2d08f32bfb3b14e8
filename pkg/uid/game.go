package uid

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateGameID returns a random game ID without dashes, short enough for a URL.
func GenerateGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateConnectionID identifies one socket, so a reconnect never evicts
// the connection that replaced it.
func GenerateConnectionID() string {
	return uuid.NewString()
}

// IsGameID reports whether s has the shape GenerateGameID produces.
func IsGameID(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
