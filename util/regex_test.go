package util

import (
	"regexp"
	"testing"
)

func TestGetRegexCaptureGroups(t *testing.T) {

	pattern := "/static/(?P<path>.*)"
	s := "/static/js/attendance.js"
	re := regexp.MustCompile(pattern)
	result := GetRegexCaptureGroups(s, re)

	if result["path"] != "js/attendance.js" {
		t.Fail()
	}

	if item := result["foo"]; item == "" {
		t.Log("Foo not found in map.")
	}

	if result := GetRegexCaptureGroups("/api/login", re); len(result) != 0 {
		t.Errorf("expected empty map for non matching input, got %v", result)
	}
}

func TestSanitizePath(t *testing.T) {
	okayPath := "/var/www/static/app.js"
	err := SanitizePath(okayPath)
	if err != nil {
		t.Logf("Expected this path to PASS sanitize test: %s\n", okayPath)
		t.Fail()
	}

	badPath := "/going/to/hack/../you/now.js"
	err = SanitizePath(badPath)
	if err == nil {
		t.Logf("Expected this path to FAIL sanitize test: %s\n", badPath)
		t.Fail()
	}
}
