package extract

import (
	"fmt"
	"regexp"
)

const videoIDLength = 11

var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|/embed/|watch\?v=|&v=)([^#&?/]+)`)

// VideoID extracts the 11-character YouTube video identifier from any of
// the platform's URL shapes, or "" when the URL does not carry one.
func VideoID(rawURL string) string {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil || len(match[1]) != videoIDLength {
		return ""
	}
	return match[1]
}

// Thumbnail builds the deterministic maxres thumbnail URL for a video ID.
// No network call is involved.
func Thumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
