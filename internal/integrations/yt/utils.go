package yt

import (
	"fmt"
	"regexp"
)

// Accepted URL shapes, tried in order.
// The video ID is the last capturing group of each pattern.
var urlPatterns = []*regexp.Regexp{
	// Long form, i.e. https://www.youtube.com/watch?v=ID
	regexp.MustCompile(`^(https?://)?(www\.youtube\.com|youtu\.?be)/.+v=([a-zA-Z0-9_-]{11}).*$`),
	// Short form, i.e. https://youtu.be/ID
	regexp.MustCompile(`^(https?://)?(www\.youtube\.com|youtu\.?be)/([a-zA-Z0-9_-]{11}).*$`),
}

// Validate video ID
var validVideoID = regexp.MustCompile(`^[-a-zA-Z0-9_]{11}$`)

// ExtractVideoID returns the video ID embedded in a YouTube URL.
// The first matching pattern wins. No existence check is done.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, pattern := range urlPatterns {
		match := pattern.FindStringSubmatch(rawURL)
		if match == nil {
			continue
		}

		return match[len(match)-1], true
	}

	return "", false
}

// ValidVideoID checks the shape of a bare video ID
func ValidVideoID(videoID string) bool {
	return validVideoID.MatchString(videoID)
}

// ThumbnailURL returns the default thumbnail of a video
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", videoID)
}
