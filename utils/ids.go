package utils

import (
	"github.com/google/uuid"
)

// maxTraceIDLen bounds caller supplied trace ids before they reach the logs
const maxTraceIDLen = 64

// GenerateID returns a new listing identifier
func GenerateID() string {
	return uuid.New().String()
}

// TraceID returns the caller's trace id when it is usable, otherwise a fresh one.
func TraceID(incoming string) string {
	if incoming == "" || len(incoming) > maxTraceIDLen {
		return uuid.NewString()
	}
	for _, r := range incoming {
		if !(r == '-' || r == '_' || r == '.' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return uuid.NewString()
		}
	}
	return incoming
}
