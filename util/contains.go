package util

import "strings"

// ContainsAny indicates if the value of msg is present in any of the values of the string array
func ContainsAny(msg string, a []string) bool {
	for _, s := range a {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// FirstMatch yields msg if it is present in the string array, otherwise returns empty string
func FirstMatch(msg string, a []string) string {
	for _, s := range a {
		if strings.Contains(msg, s) {
			return s
		}
	}
	return ""
}

// Abbreviate shortens msg to at most max runes, marking the cut with an
// ellipsis so the reader knows there was more.
func Abbreviate(msg string, max int) string {
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
