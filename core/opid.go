package core

import "github.com/google/uuid"

// GenerateOpID returns a short unique ID correlating all log entries of a
// single CLI invocation. Uses the first 8 characters of a UUID, which is
// unique enough for log correlation purposes.
func GenerateOpID() string {
	return uuid.New().String()[:8]
}
