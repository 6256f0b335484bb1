package misc

import (
	"bytes"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/vlatan/video-notes/internal/utils"
	"github.com/vlatan/video-notes/web"
)

// TextHandler serves the text files such as robots.txt
func (s *Service) TextHandler(w http.ResponseWriter, r *http.Request) {

	textFile, ok := s.ui.TextFiles()[r.URL.Path]
	if !ok || utils.ValidateFilePath(r.URL.Path) != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(textFile.Bytes); err != nil {
		log.Printf("Failed to write response to %q: %v", r.URL.Path, err)
	}
}

// HealthHandler reports the Redis status, the Gemini daily quota and server stats
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {

	w.Header().Set("X-Robots-Tag", "noindex")
	w.Header().Set("Cache-Control", "no-store")

	s.ui.WriteJSON(w, r, map[string]any{
		"redis_status":           s.rdb.Health(r.Context()),
		"gemini_quota_exhausted": s.quota.Exhausted(r.Context()),
		"server_status":          newServerStats(),
	})
}

// Healthcheck is the liveness probe
func (s *Service) Healthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Robots-Tag", "noindex")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response on '%s'; %v", r.URL.Path, err)
	}
}

// StaticHandler serves the embedded assets.
// Minified files come from memory, gzipped if the client accepts it,
// the rest from the embedded filesystem.
// Conditional requests are answered by http.ServeContent from the ETag.
func (s *Service) StaticHandler(w http.ResponseWriter, r *http.Request) {

	if err := utils.ValidateFilePath(r.URL.Path); err != nil {
		http.NotFound(w, r)
		return
	}

	// Root favicons live with the other favicons
	name := r.URL.Path
	if slices.Contains(utils.RootFavicons, name) {
		name = "/static/favicons" + name
	}

	fileInfo, ok := s.ui.StaticFiles()[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	// Asset URLs carry the etag as a version, so they never go stale
	h := w.Header()
	h.Set("Cache-Control", "public, max-age=31536000, immutable")
	h.Set("Vary", "Accept-Encoding")
	h.Set("Etag", strconv.Quote(fileInfo.Etag))

	if len(fileInfo.Bytes) == 0 {
		http.ServeFileFS(w, r, web.Files, name)
		return
	}

	content := fileInfo.Bytes
	if len(fileInfo.Compressed) > 0 && acceptsGzip(r) {
		h.Set("Content-Encoding", "gzip")
		content = fileInfo.Compressed
	}

	h.Set("Content-Type", fileInfo.MediaType)
	http.ServeContent(w, r, name, fileInfo.ModTime, bytes.NewReader(content))
}

// acceptsGzip checks the Accept-Encoding header for gzip
func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.TrimSpace(coding) == "gzip" && strings.TrimSpace(params) != "q=0" {
			return true
		}
	}
	return false
}
