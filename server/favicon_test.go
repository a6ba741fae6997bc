package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bbyours/attendance-server/dao"
)

func TestFaviconServed(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	staticDir := t.TempDir()
	icon := []byte{0, 0, 1, 0, 1, 0}
	if err := os.WriteFile(filepath.Join(staticDir, "favicon.ico"), icon, 0644); err != nil {
		t.Fatal(err)
	}
	s.StaticDir = staticDir

	r, err := http.NewRequest("GET", mountPoint+"/favicon.ico", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/x-icon" {
		t.Errorf("Expected icon content type, got %q", ct)
	}
	if w.Body.Len() != len(icon) {
		t.Errorf("Icon was not expected size %d. It is reported as %d", len(icon), w.Body.Len())
	}
}

func TestFaviconFailsForNoStaticDir(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)
	// Simulates staticDir "" for server startup
	s.StaticDir = ""

	r, err := http.NewRequest("GET", mountPoint+"/favicon.ico", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", w.Code)
	}
}

func TestServeStaticAsset(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	staticDir := t.TempDir()
	css := "body { margin: 0; }"
	if err := os.WriteFile(filepath.Join(staticDir, "attendance.css"), []byte(css), 0644); err != nil {
		t.Fatal(err)
	}
	s.StaticDir = staticDir

	r, err := http.NewRequest("GET", mountPoint+"/static/attendance.css", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/css" {
		t.Errorf("Expected stylesheet content type, got %q", ct)
	}
	if w.Body.String() != css {
		t.Errorf("Asset body did not round trip: %q", w.Body.String())
	}
}

func TestServeStaticRefusesTraversal(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	parent := t.TempDir()
	staticDir := filepath.Join(parent, "static")
	if err := os.Mkdir(staticDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("not yours"), 0644); err != nil {
		t.Fatal(err)
	}
	s.StaticDir = staticDir

	r, err := http.NewRequest("GET", mountPoint+"/static/../secret.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a path with dot segments, got %v", w.Code)
	}
}

func TestServeStaticMissingFile(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)
	s.StaticDir = t.TempDir()

	r, err := http.NewRequest("GET", mountPoint+"/static/absent.js", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", w.Code)
	}
}
