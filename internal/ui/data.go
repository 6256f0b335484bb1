package ui

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/utils"
)

// Creates new default data struct to be passed to the templates.
// It's envoked in a middleware and passed downstream via the request context.
func (s *service) NewData(w http.ResponseWriter, r *http.Request) *models.TemplateData {

	data := &models.TemplateData{
		StaticFiles: s.staticFiles,
		Config:      s.config,
		Title:       s.config.AppName,
		CurrentURI:  r.RequestURI,
	}

	// Static and text files need no more than that
	if !utils.NeedsCookie(r) {
		return data
	}

	data.CSRFField = csrf.TemplateField(r)
	data.Languages = s.langs.Languages(r.Context())

	// No cookie, no flashes
	if _, err := r.Cookie(s.config.SessionName); err != nil {
		return data
	}

	session, err := s.store.Get(r, s.config.SessionName)
	if err != nil {
		log.Printf("Unable to get the session on URI '%s': %v", r.RequestURI, err)
		return data
	}

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return data
	}

	for _, v := range flashes {
		if flash, ok := v.(*models.FlashMessage); ok && flash != nil {
			data.FlashMessages = append(data.FlashMessages, flash)
		}
	}

	// Persist the session without the consumed flashes
	if err := session.Save(r, w); err != nil {
		log.Printf("Unable to save the session on URI '%s': %v", r.RequestURI, err)
	}

	return data
}

// Store flash message in the session.
// No error if flashing fails.
func (s *service) StoreFlashMessage(
	w http.ResponseWriter,
	r *http.Request,
	m *models.FlashMessage,
) {
	session, err := s.store.Get(r, s.config.SessionName)
	if err != nil {
		log.Println("Unable to get the session", err)
	}

	session.AddFlash(m)
	if err = session.Save(r, w); err != nil {
		log.Println("Unable to save the session", err)
	}
}
