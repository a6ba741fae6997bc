package server_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/dao"
)

var homePage = template.Must(template.New("home.html").Parse(`<html><body>
{{if .EmployeeName}}<p>{{.EmployeeName}} ({{.Role}})</p>{{else}}<form method="POST" action="{{.RootURL}}/api/login">sign in</form>{{end}}
<ul>{{range .APIFunctions}}<li><a href="{{.RelativeLink}}">{{.Name}}</a> {{.Description}}</li>{{end}}</ul>
</body></html>`))

func TestHomeWithoutTemplates(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	r, err := http.NewRequest("GET", mountPoint+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when no templates are loaded, got %v", w.Code)
	}
}

func TestHomeRendersSignInForm(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)
	s.TemplateCache = homePage

	r, err := http.NewRequest("GET", mountPoint+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Expected html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "/api/login") {
		t.Errorf("Anonymous page should point at the sign in operation: %s", w.Body.String())
	}
}

func TestHomeGreetsSignedInEmployee(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	s.TemplateCache = homePage
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/ui", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), worker.Name) {
		t.Errorf("Page should greet the signed in employee: %s", w.Body.String())
	}
}
