// Package utils holds small helpers shared by the cmd binaries.
package utils

import "os"

// GetEnvDefault returns the environment value for key, or defaultValue
// when the variable is unset or empty.
func GetEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
