package server_test

import (
	"testing"

	"github.com/bbyours/attendance-server/server"
)

func TestGetContentTypeFromFilename(t *testing.T) {

	expected := make(map[string]string)
	expected[""] = "application/octet-stream"
	expected["favicon.ico"] = "image/x-icon"
	expected["attendance.css"] = "text/css"
	expected["clock.js"] = "application/javascript"
	expected["home.html"] = "text/html"
	expected["README.TXT"] = "text/plain"
	expected["roster.json"] = "application/json"
	expected["logo"] = "application/octet-stream"

	for filename, expectedContentType := range expected {
		actualContentType := server.GetContentTypeFromFilename(filename)
		if actualContentType != expectedContentType {
			t.Logf("filename '%s' didnt produce expected content type '%s'. Actual type is %s", filename, expectedContentType, actualContentType)
			t.Fail()
		}
	}
}
