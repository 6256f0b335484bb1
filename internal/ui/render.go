package ui

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/utils"
)

// Pages are executed into a buffer first,
// so a failing template never leaves half a page in the response
var buffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// WriteJSON encodes data as JSON and writes it to the response
func (s *service) WriteJSON(w http.ResponseWriter, r *http.Request, data any) {

	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON on '%s': %v", r.RequestURI, err)
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		log.Printf("Failed to write JSON on '%s': %v", r.RequestURI, err)
	}
}

// RenderHTML executes the named page template with data
// and writes the result to the response
func (s *service) RenderHTML(
	w http.ResponseWriter,
	r *http.Request,
	templateName string,
	data *models.TemplateData) {

	tmpl, ok := s.templates[templateName]
	if !ok {
		log.Printf("No '%s' template for '%s'", templateName, r.RequestURI)
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer buffers.Put(buf)

	if err := tmpl.ExecuteTemplate(buf, templateName, data); err != nil {
		log.Printf("Failed to execute '%s' on '%s': %v", templateName, r.RequestURI, err)
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to write '%s' on '%s': %v", templateName, r.RequestURI, err)
	}
}
