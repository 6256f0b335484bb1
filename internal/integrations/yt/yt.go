package yt

import (
	"context"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/vlatan/video-notes/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type Service struct {
	config   *config.Config
	youtube  *youtube.Service // nil if no YouTube API key configured
	captions captionsLister
}

// Create new YouTube service
func New(ctx context.Context, config *config.Config) (*Service, error) {

	s := &Service{
		config:   config,
		captions: yt_transcript.NewClient(),
	}

	// The Data API is only used for the video title
	if config.YouTubeAPIKey == "" {
		return s, nil
	}

	var co option.ClientOption = option.WithAPIKey(config.YouTubeAPIKey)
	youtube, err := youtube.NewService(ctx, co)
	if err != nil {
		return nil, err
	}

	s.youtube = youtube
	return s, nil
}
