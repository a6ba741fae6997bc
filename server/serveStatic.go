package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

var (
	errStaticResourceNotFound = "Could not find static resource."
	errServingStatic          = "Error serving static file."
)

func (h AppServer) serveStatic(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")

	re := h.Routes.StaticFiles
	uri := r.URL.Path
	groups := util.GetRegexCaptureGroups(uri, re)
	afterStatic, ok := groups["path"]
	if !ok {
		herr := NewAppError(404, fmt.Errorf("path for static resource not given in request"), errStaticResourceNotFound)
		h.publishError(gem, herr)
		return herr
	}
	// Sanitize the capture before the join cleans any dot segments away
	if err := util.SanitizePath(afterStatic); err != nil {
		herr := NewAppError(404, err, errStaticResourceNotFound)
		h.publishError(gem, herr)
		return herr
	}
	path := filepath.Join(h.StaticDir, afterStatic)
	f, err := os.Open(path)
	if err != nil {
		herr := NewAppError(404, err, errStaticResourceNotFound)
		h.publishError(gem, herr)
		return herr
	}
	defer f.Close()
	w.Header().Set("Content-Type", GetContentTypeFromFilename(path))
	_, err = io.Copy(w, f)
	if err != nil {
		herr := NewAppError(500, err, errServingStatic)
		h.publishError(gem, herr)
		return herr
	}
	h.publishSuccess(gem, w)
	return nil
}
