package server

import (
	"mime"
	"path"
	"strings"
)

// extensionToContentType covers the asset types the UI actually ships.
// Anything else defers to the platform mime database.
var extensionToContentType = map[string]string{
	"css":   "text/css",
	"gif":   "image/gif",
	"htm":   "text/html",
	"html":  "text/html",
	"ico":   "image/x-icon",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"js":    "application/javascript",
	"json":  "application/json",
	"map":   "application/json",
	"png":   "image/png",
	"svg":   "image/svg+xml",
	"ttf":   "application/x-font-ttf",
	"txt":   "text/plain",
	"woff":  "font/woff",
	"woff2": "font/woff2",
}

// GetContentTypeFromFilename will give a best guess if content type not given otherwise
func GetContentTypeFromFilename(name string) string {
	defaultType := "application/octet-stream"
	extension := strings.ToLower(path.Ext(name))
	if extension == "" {
		return defaultType
	}
	contentType := extensionToContentType[strings.TrimPrefix(extension, ".")]
	// If we didn't get a mapped type, try from system config
	if contentType == "" {
		contentType = mime.TypeByExtension(extension)
	}
	if contentType == "" {
		contentType = defaultType
	}
	return contentType
}
