package notes

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/vlatan/video-notes/internal/models"
)

// Keys of the workflow state in the session values
const (
	linkKey     = "link"
	languageKey = "language"
	stageKey    = "stage"
)

// loadSession gets the session from the store
// and reads the workflow state out of its values
func (s *Service) loadSession(r *http.Request) (*sessions.Session, *models.Session) {

	session, err := s.store.Get(r, s.config.SessionName)
	if err != nil {
		// Still a usable new session
		log.Printf("Unable to get the session on URI '%s': %v", r.RequestURI, err)
	}

	state := &models.Session{Stage: models.StageIdle}
	if session == nil {
		return nil, state
	}

	link, _ := session.Values[linkKey].(string)
	language, _ := session.Values[languageKey].(string)
	stage, _ := session.Values[stageKey].(string)

	// Link and language live together or not at all
	if link == "" || language == "" || stage == "" {
		return session, state
	}

	state.Link = link
	state.TargetLanguage = language
	state.Stage = models.Stage(stage)
	return session, state
}

// saveSession writes the workflow state back to the session and saves it
func (s *Service) saveSession(
	w http.ResponseWriter,
	r *http.Request,
	session *sessions.Session,
	state *models.Session,
) {
	if session == nil {
		return
	}

	session.Values[linkKey] = state.Link
	session.Values[languageKey] = state.TargetLanguage
	session.Values[stageKey] = string(state.Stage)

	if err := session.Save(r, w); err != nil {
		log.Printf("Unable to save the session on URI '%s': %v", r.RequestURI, err)
	}
}
