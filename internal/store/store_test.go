package store

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/containers"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
)

var ( // Package global variables
	testCfg   *config.Config
	testRdb   *rdb.Service
	testStore *RedisStore
	baseCtx   context.Context
)

const sessionName = "_test_session"

// Sets ups a Redis container for all tests in this package to use
func TestMain(m *testing.M) {

	// Run all the tests.
	// Needs a separate function to be able to run the defers inside,
	// because they will not work with the os.Exit below.
	exitCode := runTests(m)

	// Exit with the appropriate code
	os.Exit(exitCode)
}

// runTests performs a setup and runs all the tests in this package
func runTests(m *testing.M) int {

	// Main context - globaly available for package's tests
	baseCtx = context.Background()

	// Test config - globaly available for package's tests
	testCfg = &config.Config{Debug: true}

	setupCtx, setupCancel := context.WithTimeout(baseCtx, 2*time.Minute)
	defer setupCancel()

	// Spin up Redis container
	container, err := containers.StartRedis(setupCtx, testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis container; %v", err)
	}

	// Terminate the container on exit
	defer container.Terminate(baseCtx)

	// Redis service - globaly available for package's tests
	testRdb, err = rdb.New(testCfg)
	if err != nil {
		log.Fatalf("failed to create Redis client; %v", err)
	}

	defer func() { testRdb.Close() }()

	testStore = NewRedisStore(
		testCfg, testRdb, "session", 3600,
		securecookie.GenerateRandomKey(32),
		securecookie.GenerateRandomKey(32),
	)

	// Run all the tests in the package
	return m.Run()
}

// saveSession stores values in a new session and returns the resulting cookie
func saveSession(t *testing.T, values map[any]any) *http.Cookie {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	session, err := testStore.Get(r, sessionName)
	if err != nil {
		t.Fatalf("failed to get session; %v", err)
	}

	if !session.IsNew {
		t.Fatal("got an existing session, want a new one")
	}

	for k, v := range values {
		session.Values[k] = v
	}

	if err := session.Save(r, w); err != nil {
		t.Fatalf("failed to save session; %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	return cookies[0]
}

func TestSaveAndLoad(t *testing.T) {

	values := map[any]any{"link": "https://youtu.be/dQw4w9WgXcQ", "language": "es"}
	cookie := saveSession(t, values)

	if cookie.Name != sessionName {
		t.Errorf("got cookie name %q, want %q", cookie.Name, sessionName)
	}

	if !cookie.HttpOnly {
		t.Error("got HttpOnly = false, want true")
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	session, err := testStore.Get(r, sessionName)
	if err != nil {
		t.Fatalf("failed to get session; %v", err)
	}

	if session.IsNew {
		t.Error("got a new session, want the saved one")
	}

	for k, v := range values {
		if got := session.Values[k]; got != v {
			t.Errorf("got %s = %v, want %v", k, got, v)
		}
	}

	// The cookie never carries the values themselves
	exists, err := testRdb.Client.Exists(baseCtx, testStore.key(session.ID)).Result()
	if err != nil || exists != 1 {
		t.Errorf("got exists = %d, error = %v, want the session in Redis", exists, err)
	}
}

func TestTamperedCookie(t *testing.T) {

	cookie := saveSession(t, map[any]any{"link": "foo"})

	tests := []struct {
		name  string
		value string
	}{
		{"garbage", "garbage"},
		{"truncated", cookie.Value[:len(cookie.Value)/2]},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: sessionName, Value: tt.value})

			session, err := testStore.Get(r, sessionName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !session.IsNew || len(session.Values) != 0 {
				t.Errorf("got IsNew = %t with %d values, want a new empty session",
					session.IsNew, len(session.Values))
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {

	cookie := saveSession(t, map[any]any{"link": "foo"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	session, err := testStore.Get(r, sessionName)
	if err != nil {
		t.Fatalf("failed to get session; %v", err)
	}

	session.Options.MaxAge = -1
	w := httptest.NewRecorder()
	if err := session.Save(r, w); err != nil {
		t.Fatalf("failed to delete session; %v", err)
	}

	exists, err := testRdb.Client.Exists(baseCtx, testStore.key(session.ID)).Result()
	if err != nil || exists != 0 {
		t.Errorf("got exists = %d, error = %v, want the session gone", exists, err)
	}

	// A request with the old cookie starts over
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	session, err = testStore.Get(r, sessionName)
	if err != nil {
		t.Fatalf("failed to get session; %v", err)
	}

	if !session.IsNew {
		t.Error("got an existing session, want a new one")
	}
}
