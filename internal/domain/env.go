package domain

import (
	"strings"
)

// ValidateEnvKey checks a service environment variable name. Compose
// accepts anything shell-safe, so only empty names, '=' and whitespace
// are rejected.
func ValidateEnvKey(key string) error {
	if key == "" || strings.ContainsAny(key, "= \t\r\n") {
		return NewValidationError("environment", "invalid variable name %q", key)
	}
	return nil
}

// ParseEnvAssignment splits a list-form "KEY=VALUE" entry. A bare "KEY"
// yields an empty value.
func ParseEnvAssignment(entry string) (key, value string) {
	key, value, _ = strings.Cut(entry, "=")
	return strings.TrimSpace(key), value
}
