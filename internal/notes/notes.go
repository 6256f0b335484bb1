// Package notes runs the link to notes pipeline:
// video ID, transcript, summary, translation and rendering, strictly in sequence.
package notes

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/drivers/rdb"
	"github.com/vlatan/video-notes/internal/integrations/yt"
	"github.com/vlatan/video-notes/internal/languages"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	opLink      = "link parsing"
	opRendering = "rendering"

	summaryPrefix     = "notes:summary:"
	translationPrefix = "notes:translation:"
	videoPrefix       = "notes:video:"
	lockPrefix        = "notes:lock:"
	languagesKey      = "notes:languages"
)

var (
	errNoLink       = errors.New("no link in session")
	errInvalidVideo = errors.New("no video ID in link")
)

type Transcripts interface {
	GetVideoTranscript(ctx context.Context, videoID string) (string, error)
}

type Videos interface {
	GetVideo(ctx context.Context, videoID string) (models.VideoInfo, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
	Languages(ctx context.Context) (models.Languages, error)
}

type Service struct {
	config      *config.Config
	rdb         *rdb.Service // nil disables caching
	transcripts Transcripts
	videos      Videos // nil skips the title lookup
	summarizer  Summarizer
	translator  Translator
	markdown    goldmark.Markdown
	policy      *bluemonday.Policy
	version     string // model and prompt the summaries are cached under
}

// New creates the notes pipeline
func New(
	cfg *config.Config,
	rdb *rdb.Service,
	transcripts Transcripts,
	videos Videos,
	summarizer Summarizer,
	translator Translator,
) *Service {
	return &Service{
		config:      cfg,
		rdb:         rdb,
		transcripts: transcripts,
		videos:      videos,
		summarizer:  summarizer,
		translator:  translator,
		markdown:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:      bluemonday.UGCPolicy(),
		version:     summaryVersion(cfg),
	}
}

// summaryVersion identifies the model and prompt,
// so changing either one stops serving cached summaries
func summaryVersion(cfg *config.Config) string {
	sum := sha256.Sum256([]byte(cfg.GeminiPrompt.Text))
	return cfg.GeminiModel + ":" + hex.EncodeToString(sum[:4])
}

// VideoID extracts the video ID from the session's link.
// Errors are *models.PipelineError of kind InvalidInput.
func VideoID(session *models.Session) (string, error) {

	if !session.HasLink() {
		return "", models.NewError(models.KindInvalidInput, opLink, errNoLink)
	}

	videoID, ok := yt.ExtractVideoID(session.Link)
	if !ok {
		return "", models.NewError(models.KindInvalidInput, opLink, errInvalidVideo)
	}

	return videoID, nil
}

// Run executes the whole pipeline for the session's link and language.
// The first failing stage ends the run, nothing after it is called.
func (s *Service) Run(ctx context.Context, session *models.Session) (*models.Notes, error) {

	videoID, err := VideoID(session)
	if err != nil {
		return nil, err
	}

	if s.config.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.PipelineTimeout)
		defer cancel()
	}

	summary, err := s.summary(ctx, videoID)
	if err != nil {
		return nil, err
	}

	target := session.TargetLanguage
	if target == "" {
		target = languages.Default
	}

	translated, err := s.translation(ctx, videoID, summary, target)
	if err != nil {
		return nil, err
	}

	html, err := s.render(translated)
	if err != nil {
		log.Printf("Video '%s': failed to render the notes: %v", videoID, err)
		return nil, models.NewError(models.KindUpstreamFailure, opRendering, err)
	}

	return &models.Notes{
		VideoID:      videoID,
		ThumbnailURL: yt.ThumbnailURL(videoID),
		Title:        s.Title(ctx, videoID),
		Language:     target,
		Summary:      translated,
		HTML:         html,
	}, nil
}

// summary fetches the transcript and summarizes it.
// Concurrent runs for the same video wait for the first one
// and reuse its cached summary.
func (s *Service) summary(ctx context.Context, videoID string) (string, error) {

	if s.rdb != nil {
		lock := s.rdb.NewLock(lockPrefix+videoID, s.lockTTL())
		if err := lock.Acquire(ctx); err != nil {
			log.Printf("Video '%s': running without a lock: %v", videoID, err)
		} else {
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
					log.Printf("Video '%s': failed to release the lock: %v", videoID, err)
				}
			}()
		}
	}

	return rdb.Cached(
		ctx,
		s.rdb,
		summaryPrefix+s.version+":"+videoID,
		s.config.CacheTimeout,
		func() (string, error) {
			transcript, err := s.transcripts.GetVideoTranscript(ctx, videoID)
			if err != nil {
				return "", err
			}
			return s.summarizer.Summarize(ctx, transcript)
		},
	)
}

// translation translates the summary unless the target is English
func (s *Service) translation(ctx context.Context, videoID, summary, target string) (string, error) {

	if languages.IsSource(target) {
		return summary, nil
	}

	return rdb.Cached(
		ctx,
		s.rdb,
		translationPrefix+s.version+":"+videoID+":"+strings.ToLower(target),
		s.config.CacheTimeout,
		func() (string, error) {
			return s.translator.Translate(ctx, summary, target)
		},
	)
}

// Title looks up the video title, which is decoration only,
// so a failed lookup leaves it empty
func (s *Service) Title(ctx context.Context, videoID string) string {

	if s.videos == nil {
		return ""
	}

	video, err := rdb.Cached(
		ctx,
		s.rdb,
		videoPrefix+videoID,
		s.config.CacheTimeout,
		func() (models.VideoInfo, error) {
			return s.videos.GetVideo(ctx, videoID)
		},
	)

	if err != nil {
		if !errors.Is(err, yt.ErrNoDataAPI) {
			log.Printf("Video '%s': failed to fetch the title: %v", videoID, err)
		}
		return ""
	}

	return video.Title
}

// render converts the Markdown summary to sanitized HTML
func (s *Service) render(summary string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(summary), &buf); err != nil {
		return "", err
	}

	// #nosec G203 -- sanitized by the UGC policy
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes())), nil
}

// Languages returns the translation targets,
// falling back to the built-in list if the API can't be reached
func (s *Service) Languages(ctx context.Context) models.Languages {

	langs, err := rdb.Cached(
		ctx,
		s.rdb,
		languagesKey,
		s.config.CacheTimeout,
		func() (models.Languages, error) {
			return s.translator.Languages(ctx)
		},
	)

	if err != nil || len(langs) == 0 {
		log.Printf("Using the built-in languages: %v", err)
		return languages.Builtin()
	}

	return langs
}

// lockTTL bounds how long a crashed run can block others
func (s *Service) lockTTL() time.Duration {
	if s.config.PipelineTimeout > 0 {
		return s.config.PipelineTimeout
	}
	return time.Minute
}
