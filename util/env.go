package util

import "os"

// GetEnvWithDefault reads an environment variable, substituting def when the
// variable is unset or empty. Flag defaults in the support binaries use it;
// the server proper resolves its environment through the config cascade.
func GetEnvWithDefault(name string, def string) string {
	val := os.Getenv(name)
	if val == "" {
		return def
	}
	return val
}
