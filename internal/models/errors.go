package models

import (
	"errors"
	"fmt"
)

// Kind tags a pipeline failure with the category the user gets to see
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindCaptionsDisabled
	KindQuotaExceeded
	KindUpstreamFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindCaptionsDisabled:
		return "captions disabled"
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindUpstreamFailure:
		return "upstream failure"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PipelineError is returned by every pipeline stage.
// Op names the stage that failed, Err is the underlying cause.
type PipelineError struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError creates a new pipeline error
func NewError(kind Kind, op string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

// Implement error interface
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s; %v", e.Op, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Message is the text rendered to the user, never containing the raw cause
func (e *PipelineError) Message() string {
	switch e.Kind {
	case KindInvalidInput:
		return "Invalid YouTube URL."
	case KindCaptionsDisabled:
		return "Subtitles are disabled for this video."
	case KindQuotaExceeded:
		return "API quota exceeded. Please try again later."
	}

	if e.Op != "" {
		return fmt.Sprintf("An error occurred during %s. Please try again.", e.Op)
	}

	return "An error occurred. Please try again."
}

// KindOf returns the kind of a pipeline error.
// Errors not produced by the pipeline are upstream failures.
func KindOf(err error) Kind {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return KindUpstreamFailure
}
