package notes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/vlatan/video-notes/internal/integrations/yt"
	"github.com/vlatan/video-notes/internal/languages"
	"github.com/vlatan/video-notes/internal/models"
	pipe "github.com/vlatan/video-notes/internal/notes"
	"github.com/vlatan/video-notes/internal/utils"
)

const emptyLinkMessage = "Please enter a YouTube video link."

// HomeHandler renders the form, and the video thumbnail
// if the session holds a link with a valid video ID
func (s *Service) HomeHandler(w http.ResponseWriter, r *http.Request) {

	data := models.GetDataFromContext(r)
	_, state := s.loadSession(r)
	data.Session = state

	if state.HasLink() {
		videoID, err := pipe.VideoID(state)
		if err != nil {
			data.FlashMessages = append(data.FlashMessages, errorBanner(err))
		} else {
			s.attachVideo(r.Context(), data, videoID, "")
		}
	}

	s.ui.RenderHTML(w, r, "home.html", data)
}

// ApplyHandler stores the link and the target language in the session
// and redirects back to the form
func (s *Service) ApplyHandler(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseForm(); err != nil {
		log.Printf("Failed to parse the form on URI '%s': %v", r.RequestURI, err)
		utils.HttpError(w, http.StatusBadRequest)
		return
	}

	code := strings.TrimSpace(r.PostForm.Get("language"))
	if code == "" {
		code = languages.Default
	}

	// Only the offered languages are accepted
	language, ok := languages.Find(s.notes.Languages(r.Context()), code)
	if !ok {
		log.Printf("Unknown target language '%s' on URI '%s'", code, r.RequestURI)
		utils.HttpError(w, http.StatusBadRequest)
		return
	}

	session, state := s.loadSession(r)
	if err := state.Submit(r.PostForm.Get("link"), language.Code); err != nil {
		s.ui.StoreFlashMessage(w, r, &models.FlashMessage{
			Message:  emptyLinkMessage,
			Category: "danger",
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.saveSession(w, r, session, state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NotesHandler runs the pipeline for the session's link
// and renders the notes or the error banner
func (s *Service) NotesHandler(w http.ResponseWriter, r *http.Request) {

	session, state := s.loadSession(r)
	if !state.HasLink() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := state.RequestNotes(); err != nil {
		log.Printf("Notes requested on URI '%s': %v", r.RequestURI, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result, runErr := s.notes.Run(r.Context(), state)
	if err := state.Complete(runErr != nil); err != nil {
		log.Printf("Notes completed on URI '%s': %v", r.RequestURI, err)
	}

	s.saveSession(w, r, session, state)

	data := models.GetDataFromContext(r)
	data.Session = state

	if runErr != nil {
		log.Printf("Failed to get notes for link '%s': %v", state.Link, runErr)
		data.FlashMessages = append(data.FlashMessages, errorBanner(runErr))
		if videoID, err := pipe.VideoID(state); err == nil {
			s.attachVideo(r.Context(), data, videoID, "")
		}
		s.ui.RenderHTML(w, r, "home.html", data)
		return
	}

	data.Notes = result
	s.attachVideo(r.Context(), data, result.VideoID, result.Title)
	if result.Title != "" {
		data.Title = result.Title + " | " + s.config.AppName
	}

	s.ui.RenderHTML(w, r, "home.html", data)
}

// attachVideo puts the video ID, thumbnail and title in the template data.
// An empty title is looked up.
func (s *Service) attachVideo(ctx context.Context, data *models.TemplateData, videoID, title string) {

	data.VideoID = videoID
	data.ThumbnailURL = yt.ThumbnailURL(videoID)

	if title == "" {
		title = s.notes.Title(ctx, videoID)
	}

	if title != "" {
		data.Video = &models.VideoInfo{ID: videoID, Title: title}
	}
}

// errorBanner turns an error into the message shown to the user
func errorBanner(err error) *models.FlashMessage {

	var pErr *models.PipelineError
	if !errors.As(err, &pErr) {
		pErr = models.NewError(models.KindUpstreamFailure, "", err)
	}

	return &models.FlashMessage{
		Message:  pErr.Message(),
		Category: "danger",
	}
}
