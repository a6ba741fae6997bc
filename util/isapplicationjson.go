package util

import "strings"

// IsApplicationJSON reports whether a Content-Type header names
// application/json, ignoring any media type parameters after the semicolon.
func IsApplicationJSON(contentType string) bool {
	return strings.TrimSpace(strings.Split(contentType, ";")[0]) == "application/json"
}
