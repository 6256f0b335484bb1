package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/vlatan/video-notes/internal/models"
)

// errorPage is the heading and the text of an error page
type errorPage struct {
	heading, text string
}

// Statuses that get a rendered error page,
// anything else falls back to plain text
var errorPages = map[int]errorPage{
	http.StatusBadRequest: {
		"Bad request",
		"The form could not be read. Go back and submit the link again.",
	},
	http.StatusForbidden: {
		"Access forbidden",
		"Your session may have expired. Please reload the page and try again.",
	},
	http.StatusNotFound: {
		"Page not found",
		"That page does not exist. Paste a YouTube link on the home page instead.",
	},
	http.StatusMethodNotAllowed: {
		"Method not allowed",
		"Use the form on the home page and try again.",
	},
	http.StatusInternalServerError: {
		"Something went wrong",
		"Sorry about that. Please try again in a moment.",
	},
}

// ExecuteErrorTemplate renders error.html for the status into w
func (s *service) ExecuteErrorTemplate(w io.Writer, status int, data *models.TemplateData) error {

	tmpl, ok := s.templates["error.html"]
	if !ok {
		return fmt.Errorf("no error.html template")
	}

	page, ok := errorPages[status]
	if !ok {
		return fmt.Errorf("no error page for status %d", status)
	}

	data.HTMLErrorData = &models.HTMLErrorData{
		Title:   strconv.Itoa(status),
		Heading: fmt.Sprintf("%s (%d)", page.heading, status),
		Text:    page.text,
	}

	return tmpl.ExecuteTemplate(w, "error.html", data)
}

// HTMLError writes the status with the error page,
// or with the plain status text if the page can't be rendered
func (s *service) HTMLError(w http.ResponseWriter, r *http.Request, status int, data *models.TemplateData) {

	if data == nil {
		data = &models.TemplateData{
			StaticFiles: s.staticFiles,
			Config:      s.config,
			Title:       s.config.AppName,
			CurrentURI:  r.RequestURI,
		}
	}

	var buf bytes.Buffer
	if err := s.ExecuteErrorTemplate(&buf, status, data); err != nil {
		log.Printf("Failed to render the %d page on '%s': %v", status, r.RequestURI, err)
		buf.Reset()
		buf.WriteString(http.StatusText(status))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write the %d page on '%s': %v", status, r.RequestURI, err)
	}
}

// JSONError writes the status as a JSON error object
func (s *service) JSONError(w http.ResponseWriter, r *http.Request, status int) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(models.JSONErrorData{
		Error: http.StatusText(status),
		Code:  status,
	})

	if err != nil {
		log.Printf("Failed to write the JSON %d error on '%s': %v", status, r.RequestURI, err)
	}
}
