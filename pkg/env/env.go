package env

import (
	"os"
	"strings"
)

// Get reads an environment variable with surrounding whitespace stripped.
// Unset or blank values fall back to the provided default, so a stray
// `LOG_FORMAT=" "` in a .env file cannot select an empty format.
func Get(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
