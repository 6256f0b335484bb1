package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/klauspost/compress/gzhttp"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/ui"
	"github.com/vlatan/video-notes/internal/utils"
)

type Service struct {
	ui     ui.Service
	config *config.Config
}

func New(ui ui.Service, config *config.Config) *Service {
	return &Service{
		ui:     ui,
		config: config,
	}
}

// Generate the default template data and put it in context
func (s *Service) LoadData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := s.ui.NewData(w, r)
		ctx := context.WithValue(r.Context(), models.DataContextKey, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Close the body if POST request
func (s *Service) CloseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Close request body for POST methods to prevent resource leaks
		if r.Method == http.MethodPost {
			defer r.Body.Close()
		}
		next.ServeHTTP(w, r)
	})
}

// Do not crash the app on panic, serve 500 error to the client
func (s *Service) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If in production recover panic
		if !s.config.Debug {
			defer func() {
				if err := recover(); err != nil {
					log.Printf("Panic in %s %s: %#v", r.Method, r.URL.Path, err)
					http.Error(w, "Something went wrong", http.StatusInternalServerError)
				}
			}()
		}

		next.ServeHTTP(w, r)
	})
}

// Log the method, path, status and duration of each request
func (s *Service) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Static files are too noisy
		if utils.IsStatic(r) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		log.Printf(
			"%s %s %d %s",
			r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Millisecond),
		)
	})
}

// The page loads its own assets plus the video thumbnail, nothing else
const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' https://img.youtube.com; " +
	"form-action 'self'; frame-ancestors 'none'; base-uri 'none'; object-src 'none'"

// Add security headers to the response
func (s *Service) AddHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		// HSTS (HTTPS only)
		if !s.config.Debug {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// Redirect WWW to non-WWW
func (s *Service) WWWRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check for 'www.' prefix
		if !strings.HasPrefix(r.Host, "www.") {
			next.ServeHTTP(w, r)
			return
		}

		// Clone the URL
		u := *r.URL
		u.Host = strings.TrimPrefix(r.Host, "www.")

		u.Scheme = "http"
		if !s.config.Debug {
			u.Scheme = "https"
		}

		// POST forms are redirected with their method
		status := http.StatusMovedPermanently
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			status = http.StatusPermanentRedirect
		}

		http.Redirect(w, r, u.String(), status)
	})
}

// Record the status code and body and serves rich errors if the response is error
func (s *Service) HandleErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Create our custom response recorder
		recorder := NewResponseRecorder(w)

		// Defer the final response write until the function exits.
		// This ensures that either the original response or the error response is written.
		defer recorder.flush()

		// Call the next handler in the chain
		next.ServeHTTP(recorder, r)

		// We don't care if this is not an error
		if recorder.status < 400 {
			return
		}

		// Clear any previously buffered body
		recorder.body.Reset()

		// Client probably does not want HTML, serve JSON error
		if !strings.Contains(r.Header.Get("Accept"), "text/html") {
			s.ui.JSONError(recorder, r, recorder.status)
			return
		}

		// Serve rich HTML error
		data := models.GetDataFromContext(r)
		s.ui.HTMLError(recorder, r, recorder.status, data)
	})
}

// CsrfProtection guards the form posts with gorilla/csrf.
// Paths that never carry a session skip it.
func (s *Service) CsrfProtection(next http.Handler) http.Handler {

	protected := csrf.Protect(
		s.config.CsrfKey.Bytes,
		csrf.CookieName(s.config.CsrfSessionName),
		csrf.Secure(!s.config.Debug),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if !utils.NeedsCookie(r) {
			next.ServeHTTP(w, r)
			return
		}

		// Local development runs on plain HTTP
		if s.config.Debug {
			r = csrf.PlaintextHTTPRequest(r)
		}

		protected.ServeHTTP(w, r)
	})
}

// csrfFailure serves the forbidden page if the CSRF token is missing or invalid
func (s *Service) csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.Printf("CSRF failure on URI '%s': %v", r.RequestURI, csrf.FailureReason(r))

	if !strings.Contains(r.Header.Get("Accept"), "text/html") {
		s.ui.JSONError(w, r, http.StatusForbidden)
		return
	}

	s.ui.HTMLError(w, r, http.StatusForbidden, nil)
}

// Compress provides gzip compression to non-static pages
func (s *Service) Compress(next http.Handler) http.Handler {

	// Create the gzip handler
	gzipHandler := gzhttp.GzipHandler(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Static files are compressed on startup
		if utils.IsStatic(r) {
			next.ServeHTTP(w, r)
			return
		}

		gzipHandler.ServeHTTP(w, r)
	})
}

// Chain middlewares that apply to all handlers
func (s *Service) ApplyToAll(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middlewares in reverse order
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
