// Package utils provides small, dependency-free helpers shared across the
// driver: error wrapping with fmt.Errorf's %w verb, and
// environment-variable lookups with typed fallbacks.
package utils

import "fmt"

// Wrap adds context to an error message. It returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
