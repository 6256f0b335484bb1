package yt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/internal/utils"
	"google.golang.org/api/googleapi"
)

var (
	ErrNoDataAPI     = errors.New("YouTube Data API not configured")
	ErrVideoNotFound = errors.New("video not found on YouTube")
)

var videoBackoff = utils.Backoff{
	Attempts:  3,
	Base:      500 * time.Millisecond,
	MaxJitter: 250 * time.Millisecond,
	MaxWait:   5 * time.Second,
	Retryable: transient,
}

// GetVideo fetches the video title from the YouTube Data API.
// Returns ErrNoDataAPI if no API key was configured.
func (s *Service) GetVideo(ctx context.Context, videoID string) (models.VideoInfo, error) {

	if s.youtube == nil {
		return models.VideoInfo{}, ErrNoDataAPI
	}

	return utils.Retry(ctx, videoBackoff, func(ctx context.Context) (models.VideoInfo, error) {

		response, err := s.youtube.Videos.
			List([]string{"snippet"}).
			Id(videoID).
			Fields("items(id,snippet/title)").
			Context(ctx).
			Do()

		if err != nil {
			return models.VideoInfo{}, err
		}

		if len(response.Items) == 0 || response.Items[0].Snippet == nil {
			return models.VideoInfo{}, ErrVideoNotFound
		}

		return models.VideoInfo{
			ID:    videoID,
			Title: response.Items[0].Snippet.Title,
		}, nil
	})
}

// transient reports whether another try might succeed
func transient(err error) bool {

	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	return true
}
