package ui

import (
	"context"
	"io"
	"log"
	"net/http"
	"regexp"

	"github.com/gorilla/sessions"
	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/css"
	"github.com/tdewolff/minify/html"
	"github.com/tdewolff/minify/js"
	"github.com/tdewolff/minify/json"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/models"
)

type Service interface {
	// Get the map containing the static files
	StaticFiles() models.StaticFiles
	// Get the map containing the text files
	TextFiles() models.TextFiles
	// Store flash message in the session
	StoreFlashMessage(w http.ResponseWriter, r *http.Request, m *models.FlashMessage)
	// Create new template data
	NewData(w http.ResponseWriter, r *http.Request) *models.TemplateData
	// Write JSON to response
	WriteJSON(w http.ResponseWriter, r *http.Request, data any)
	// Write HTML template to response
	RenderHTML(w http.ResponseWriter, r *http.Request, templateName string, data *models.TemplateData)
	// Write JSON error to response
	JSONError(w http.ResponseWriter, r *http.Request, statusCode int)
	// Write HTML error to response
	HTMLError(w http.ResponseWriter, r *http.Request, statusCode int, data *models.TemplateData)
	// ExecuteErrorTemplate executes error.html template
	ExecuteErrorTemplate(w io.Writer, status int, data *models.TemplateData) error
}

// Source of the language selector options
type languageLister interface {
	Languages(ctx context.Context) models.Languages
}

type service struct {
	templates   models.TemplateMap
	staticFiles models.StaticFiles
	textFiles   models.TextFiles
	config      *config.Config
	store       sessions.Store
	langs       languageLister
}

var validJS = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")

// New minifies and parses the embedded templates and static files
func New(config *config.Config, store sessions.Store, langs languageLister) Service {

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(validJS, js.Minify)
	m.AddFunc("application/manifest+json", json.Minify)

	// The templates and the assets are embedded,
	// so a failure here is a build defect
	templates, err := parseTemplates(m)
	if err != nil {
		log.Fatalf("couldn't parse the templates; %v", err)
	}

	staticFiles, err := parseStaticFiles(m, "static")
	if err != nil {
		log.Fatalf("couldn't load the static files; %v", err)
	}

	return &service{
		templates:   templates,
		staticFiles: staticFiles,
		textFiles:   parseTextFiles(config),
		config:      config,
		store:       store,
		langs:       langs,
	}
}
