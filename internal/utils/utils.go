package utils

import (
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
)

// Favicons served from the root
var RootFavicons = []string{
	"/favicon.svg",
}

// Validates a path
func ValidateFilePath(p string) error {
	if p == "" {
		return fmt.Errorf("no path supplied")
	}

	cleaned := path.Clean(p)
	if cleaned != p {
		return fmt.Errorf("invalid path '%s'", p)
	}

	return nil
}

// Check if this is a static file
func IsStatic(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/static/") ||
		slices.Contains(RootFavicons, r.URL.Path)
}

// Check if a route needs a session or a CSRF cookie
func NeedsCookie(r *http.Request) bool {

	if IsStatic(r) {
		return false
	}

	if strings.HasSuffix(r.URL.Path, ".txt") {
		return false
	}

	if r.URL.Path == "/healthcheck" || strings.HasPrefix(r.URL.Path, "/health/") {
		return false
	}

	return true
}

// HttpError provides shorter handling of http error
func HttpError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}
