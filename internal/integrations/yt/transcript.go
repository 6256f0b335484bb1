package yt

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"
	"github.com/vlatan/video-notes/internal/models"
)

const opTranscript = "transcript fetching"

// Phrases the captions service uses when a video has no usable captions
var disabledPhrases = []string{
	"disabled",
	"captions not found",
	"no transcript",
}

var errEmptyTranscript = errors.New("empty transcript")

type captionsLister interface {
	GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error)
}

type captionsResult struct {
	transcripts []yt_transcript_models.Transcript
	err         error
}

// GetVideoTranscript fetches the caption fragments of a video
// and joins them in order with single spaces.
// Errors are *models.PipelineError of kind CaptionsDisabled or UpstreamFailure.
func (s *Service) GetVideoTranscript(ctx context.Context, videoID string) (string, error) {

	// The captions client is not context aware,
	// so stop waiting on it once the context is done.
	done := make(chan captionsResult, 1)
	go func() {
		tr, err := s.captions.GetTranscripts(videoID, s.config.TranscriptLanguages)
		done <- captionsResult{tr, err}
	}()

	var result captionsResult
	select {
	case <-ctx.Done():
		return "", models.NewError(models.KindUpstreamFailure, opTranscript, ctx.Err())
	case result = <-done:
	}

	if result.err != nil {
		log.Printf("Video '%s': failed to fetch the transcript: %v", videoID, result.err)
		if captionsDisabled(result.err) {
			return "", models.NewError(models.KindCaptionsDisabled, opTranscript, result.err)
		}
		return "", models.NewError(models.KindUpstreamFailure, opTranscript, result.err)
	}

	// The service returns the best match first
	if len(result.transcripts) == 0 {
		return "", models.NewError(models.KindCaptionsDisabled, opTranscript, errEmptyTranscript)
	}

	transcript := joinFragments(result.transcripts[0])
	if strings.TrimSpace(transcript) == "" {
		return "", models.NewError(models.KindCaptionsDisabled, opTranscript, errEmptyTranscript)
	}

	return transcript, nil
}

// joinFragments concatenates the caption fragments in their returned order
func joinFragments(tr yt_transcript_models.Transcript) string {
	fragments := make([]string, 0, len(tr.Lines))
	for _, line := range tr.Lines {
		fragments = append(fragments, line.Text)
	}
	return strings.Join(fragments, " ")
}

// captionsDisabled checks if the captions service refused
// because the video has no captions
func captionsDisabled(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range disabledPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
