package app

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
	"github.com/vlatan/video-notes/internal/languages"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/notes"
)

var tokenField = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

type fakeTranscripts struct{}

func (fakeTranscripts) GetVideoTranscript(ctx context.Context, videoID string) (string, error) {
	return "never gonna give you up", nil
}

type fakeSummarizer struct{}

func (fakeSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	return "* point one\n* point two", nil
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	return text, nil
}

func (fakeTranslator) Languages(ctx context.Context) (models.Languages, error) {
	return languages.Builtin(), nil
}

type fakeHealth struct{}

func (fakeHealth) Health(ctx context.Context) rdb.HealthStatus {
	return rdb.HealthStatus{Status: "healthy"}
}

type fakeQuota struct{}

func (fakeQuota) Exhausted(ctx context.Context) bool { return false }

func newTestApp(t *testing.T) *App {
	t.Helper()

	gob.Register(&models.FlashMessage{})

	cfg := &config.Config{
		Debug:           true,
		AppName:         "Video Notes",
		Domain:          "example.com",
		SessionName:     "_test",
		CsrfSessionName: "_test_csrf",
		CsrfKey:         config.Secret{Bytes: []byte("0123456789abcdef0123456789abcdef")},
		Host:            "localhost",
		Port:            5000,
	}

	store := sessions.NewCookieStore([]byte("abcdef0123456789abcdef0123456789"))
	pipeline := notes.New(cfg, nil, fakeTranscripts{}, nil, fakeSummarizer{}, fakeTranslator{})

	return assemble(cfg, store, pipeline, fakeHealth{}, fakeQuota{}, func() error { return nil })
}

// browser keeps the cookies and the CSRF token between requests
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
	token   string
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var req *http.Request
	if form != nil {
		form.Set("gorilla.csrf.Token", b.token)
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	req.Header.Set("Accept", "text/html")
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}

	if match := tokenField.FindStringSubmatch(w.Body.String()); match != nil {
		b.token = match[1]
	}

	return w
}

func TestRoutes(t *testing.T) {

	handler := newTestApp(t).server.Handler

	tests := []struct {
		name   string
		method string
		path   string
		accept string
		status int
		want   string
	}{
		{"home", "GET", "/", "text/html", http.StatusOK, "Apply"},
		{"healthcheck", "GET", "/healthcheck", "", http.StatusOK, "OK"},
		{"health", "GET", "/health/", "application/json", http.StatusOK, "gemini_quota_exhausted"},
		{"robots", "GET", "/robots.txt", "", http.StatusOK, "User-agent"},
		{"stylesheet", "GET", "/static/css/style.css", "", http.StatusOK, ""},
		{"favicon", "GET", "/favicon.svg", "", http.StatusOK, "<svg"},
		{"html not found", "GET", "/missing", "text/html", http.StatusNotFound, "Page not found (404)"},
		{"json not found", "GET", "/missing", "application/json", http.StatusNotFound, `"code":404`},
		{"method not allowed", "GET", "/apply", "text/html", http.StatusMethodNotAllowed, "Method not allowed (405)"},
		{"post without token", "POST", "/apply", "text/html", http.StatusForbidden, "Access forbidden (403)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("got status %d, want %d", w.Code, tt.status)
			}

			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body does not contain %q", tt.want)
			}
		})
	}
}

func TestNotesFlow(t *testing.T) {

	b := &browser{
		t:       t,
		handler: newTestApp(t).server.Handler,
		cookies: make(map[string]*http.Cookie),
	}

	if w := b.do("GET", "/", nil); w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	if b.token == "" {
		t.Fatal("no CSRF token in the form")
	}

	w := b.do("POST", "/apply", url.Values{
		"link":     {"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		"language": {"en"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusSeeOther)
	}

	w = b.do("GET", "/", nil)
	if !strings.Contains(w.Body.String(), "Get Detailed Notes") {
		t.Fatal("the notes button is missing after apply")
	}

	w = b.do("POST", "/notes", url.Values{})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{"<li>point one</li>", "<li>point two</li>", "img.youtube.com/vi/dQw4w9WgXcQ"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestShutdown(t *testing.T) {

	closeErr := errors.New("redis already closed")

	tests := []struct {
		name    string
		cleanup error
		wantErr bool
	}{
		{"clean", nil, false},
		{"cleanup fails", closeErr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)

			calls := 0
			a.cleanup = func() error {
				calls++
				return tt.cleanup
			}

			err := a.Shutdown()
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}

			if tt.cleanup != nil && !errors.Is(err, tt.cleanup) {
				t.Errorf("got error %v, want it to wrap %v", err, tt.cleanup)
			}

			if calls != 1 {
				t.Errorf("got %d cleanup calls, want 1", calls)
			}
		})
	}
}
