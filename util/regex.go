package util

import (
	"fmt"
	"regexp"
)

// GetRegexCaptureGroups applies a compiled RegExp to a string and returns a
// map of capture group name to captured value. An input that does not match
// yields an empty map, so test for empty string values when reading from the
// result.
func GetRegexCaptureGroups(s string, re *regexp.Regexp) map[string]string {
	result := make(map[string]string)
	match := re.FindStringSubmatch(s)
	if match == nil {
		return result
	}
	for i, name := range re.SubexpNames() {
		if i != 0 {
			result[name] = match[i]
		}
	}
	return result
}

// SanitizePath rejects request paths carrying traversal or encoding
// metacharacters before they reach the filesystem.
func SanitizePath(path string) error {

	attackPattern := `\.{2,}`
	re := regexp.MustCompile(attackPattern)
	if re.MatchString(path) {
		return fmt.Errorf("Relative path detected. Possible attack. Path string: %s\n", path)
	}
	attackPattern = `\%`
	re = regexp.MustCompile(attackPattern)
	if re.MatchString(path) {
		return fmt.Errorf("Encoding metacharacter detected. Possible attack. Path string: %s\n", path)
	}
	return nil
}
