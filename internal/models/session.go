package models

import (
	"errors"
	"fmt"
	"strings"
)

// Stage is the position of a session in the notes workflow
type Stage string

const (
	StageIdle            Stage = "IDLE"
	StageLinkSubmitted   Stage = "LINK_SUBMITTED"
	StageNotesRequested  Stage = "NOTES_REQUESTED"
	StageResultDisplayed Stage = "RESULT_DISPLAYED"
	StageErrorDisplayed  Stage = "ERROR_DISPLAYED"
)

var (
	ErrEmptyLink         = errors.New("no link submitted")
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// Session is the per-session context passed through the handlers.
// Link and TargetLanguage are set together or not at all.
type Session struct {
	Link           string
	TargetLanguage string
	Stage          Stage
}

// HasLink reports whether a link was ever submitted in this session
func (s *Session) HasLink() bool {
	return s != nil && s.Link != ""
}

// Submit stores the form inputs and resets the session to LINK_SUBMITTED.
// It's valid from any stage.
func (s *Session) Submit(link, targetLanguage string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return ErrEmptyLink
	}

	s.Link = link
	s.TargetLanguage = targetLanguage
	s.Stage = StageLinkSubmitted
	return nil
}

// RequestNotes moves the session to NOTES_REQUESTED.
// Notes can be requested again for the same link after a result or an error.
func (s *Session) RequestNotes() error {
	switch s.Stage {
	case StageLinkSubmitted, StageResultDisplayed, StageErrorDisplayed:
		s.Stage = StageNotesRequested
		return nil
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Stage, StageNotesRequested)
}

// Complete ends a pipeline run, moving to RESULT_DISPLAYED on success
// or ERROR_DISPLAYED if the run failed.
func (s *Session) Complete(failed bool) error {

	next := StageResultDisplayed
	if failed {
		next = StageErrorDisplayed
	}

	if s.Stage != StageNotesRequested {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Stage, next)
	}

	s.Stage = next
	return nil
}
