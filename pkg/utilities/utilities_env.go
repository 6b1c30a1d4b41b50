package utilities

import (
	"os"
	"strings"
)

// EnvOr returns the trimmed value of key, or fallback when it is unset or blank.
func EnvOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
