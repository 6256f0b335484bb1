package app

import (
	"net/http"

	"github.com/vlatan/video-notes/internal/utils"
)

// RegisterRoutes registers routes and
// assigns custom handler to the HTTP server
func (a *App) RegisterRoutes() *App {
	mux := http.NewServeMux()

	// Notes workflow
	mux.HandleFunc("GET /{$}", a.notes.HomeHandler)
	mux.HandleFunc("POST /apply", a.notes.ApplyHandler)
	mux.HandleFunc("POST /notes", a.notes.NotesHandler)

	// The rest
	mux.HandleFunc("GET /health/{$}", a.misc.HealthHandler)
	mux.HandleFunc("GET /healthcheck", a.misc.Healthcheck)
	mux.HandleFunc("GET /static/", a.misc.StaticHandler)
	mux.HandleFunc("GET /robots.txt", a.misc.TextHandler)

	// Register favicons serving from root
	for _, favicon := range utils.RootFavicons {
		mux.HandleFunc("GET "+favicon, a.misc.StaticHandler)
	}

	// Chain middlewares that apply to all requests.
	// The order is important.
	a.server.Handler = a.mw.ApplyToAll(
		a.mw.RecoverPanic,
		a.mw.CloseBody,
		a.mw.WWWRedirect,
		a.mw.Logging,
		a.mw.CsrfProtection,
		a.mw.LoadData,
		a.mw.AddHeaders,
		a.mw.Compress,
		a.mw.HandleErrors,
	)(mux)

	return a
}
