package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/ui"
)

// fakeUI implements only what the middlewares call
type fakeUI struct {
	ui.Service
	data *models.TemplateData
}

func (f *fakeUI) NewData(w http.ResponseWriter, r *http.Request) *models.TemplateData {
	return f.data
}

func (f *fakeUI) JSONError(w http.ResponseWriter, r *http.Request, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	io.WriteString(w, `{"error":"json"}`)
}

func (f *fakeUI) HTMLError(w http.ResponseWriter, r *http.Request, statusCode int, data *models.TemplateData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	io.WriteString(w, "<p>html error</p>")
}

func newTestService(debug bool) *Service {
	cfg := &config.Config{
		Debug:           debug,
		CsrfKey:         config.Secret{Bytes: []byte("0123456789abcdef0123456789abcdef")},
		CsrfSessionName: "_csrf_test",
	}
	return New(&fakeUI{data: &models.TemplateData{Title: "test"}}, cfg)
}

func TestRecoverPanic(t *testing.T) {

	s := newTestService(false)
	handler := s.RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestLoadData(t *testing.T) {

	s := newTestService(false)

	var got *models.TemplateData
	handler := s.LoadData(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = models.GetDataFromContext(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got == nil || got.Title != "test" {
		t.Errorf("got %v, want the template data in context", got)
	}
}

func TestAddHeaders(t *testing.T) {

	tests := []struct {
		name  string
		debug bool
		hsts  bool
	}{
		{"production", false, true},
		{"debug", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(tt.debug)
			handler := s.AddHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("got %q, want %q", got, "nosniff")
			}

			if got := w.Header().Get("Content-Security-Policy"); !strings.Contains(got, "img-src 'self' https://img.youtube.com") {
				t.Errorf("got CSP %q, want the thumbnail host allowed", got)
			}

			if got := w.Header().Get("Strict-Transport-Security") != ""; got != tt.hsts {
				t.Errorf("got HSTS %v, want %v", got, tt.hsts)
			}
		})
	}
}

func TestWWWRedirect(t *testing.T) {

	tests := []struct {
		name     string
		method   string
		host     string
		status   int
		location string
	}{
		{"no www", "GET", "example.com", http.StatusOK, ""},
		{"www get", "GET", "www.example.com", http.StatusMovedPermanently, "https://example.com/notes"},
		{"www post", "POST", "www.example.com", http.StatusPermanentRedirect, "https://example.com/notes"},
	}

	s := newTestService(false)
	handler := s.WWWRedirect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/notes", nil)
			req.Host = tt.host

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}

			if got := w.Header().Get("Location"); got != tt.location {
				t.Errorf("got location %q, want %q", got, tt.location)
			}
		})
	}
}

func TestHandleErrors(t *testing.T) {

	tests := []struct {
		name   string
		status int
		accept string
		body   string
	}{
		{"success passes through", http.StatusOK, "text/html", "original"},
		{"html error", http.StatusNotFound, "text/html,application/xhtml+xml", "<p>html error</p>"},
		{"json error", http.StatusBadRequest, "application/json", `{"error":"json"}`},
	}

	s := newTestService(false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := s.HandleErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, "original")
			}))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Accept", tt.accept)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}

			if got := w.Body.String(); got != tt.body {
				t.Errorf("got body %q, want %q", got, tt.body)
			}
		})
	}
}

func TestCsrfProtection(t *testing.T) {

	s := newTestService(true)
	handler := s.CsrfProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"safe method", "GET", "/", http.StatusOK},
		{"post without token", "POST", "/apply", http.StatusForbidden},
		{"robots is exempt", "POST", "/robots.txt", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("link=x"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Accept", "text/html")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestCompress(t *testing.T) {

	s := newTestService(false)
	body := strings.Repeat("notes ", 1000)

	handler := s.Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, body)
	}))

	tests := []struct {
		path    string
		gzipped bool
	}{
		{"/", true},
		{"/static/css/style.css", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set("Accept-Encoding", "gzip")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			gzipped := w.Header().Get("Content-Encoding") == "gzip"
			if gzipped != tt.gzipped {
				t.Fatalf("got gzipped %v, want %v", gzipped, tt.gzipped)
			}

			if !gzipped {
				return
			}

			gz, err := gzip.NewReader(w.Body)
			if err != nil {
				t.Fatalf("failed to create a gzip reader: %v", err)
			}

			got, err := io.ReadAll(gz)
			if err != nil {
				t.Fatalf("failed to read the body: %v", err)
			}

			if string(got) != body {
				t.Errorf("got %d bytes, want %d", len(got), len(body))
			}
		})
	}
}

func TestApplyToAll(t *testing.T) {

	s := newTestService(false)

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := s.ApplyToAll(mark("first"), mark("second"), mark("third"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "final")
		}),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	expected := "first second third final"
	if got := strings.Join(order, " "); got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestLogging(t *testing.T) {

	s := newTestService(false)
	handler := s.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/apply", nil))

	if w.Code != http.StatusSeeOther {
		t.Errorf("got status %d, want %d", w.Code, http.StatusSeeOther)
	}
}
