package util

import "os"

// Getenv returns the value of the environment variable, or the fallback
// when the variable is empty or unset
func Getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
