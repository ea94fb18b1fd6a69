package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeExtractor fetches video metadata (title, description, duration)
// through the YouTube Data API and renders it as a single text item.
type YouTubeExtractor struct {
	apiKey string
}

var _ Extractor = (*YouTubeExtractor)(nil)

func NewYouTubeExtractor(apiKey string) *YouTubeExtractor {
	return &YouTubeExtractor{apiKey: apiKey}
}

// Extract treats path as a YouTube URL.
func (e *YouTubeExtractor) Extract(ctx context.Context, rawURL string) ([]Item, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY not set; cannot fetch video metadata")
	}

	videoID, err := VideoID(rawURL)
	if err != nil {
		return nil, err
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}

	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube lookup %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("youtube video not found: %s", videoID)
	}

	video := resp.Items[0]
	title := video.Snippet.Title
	description := video.Snippet.Description
	duration := ""
	if video.ContentDetails != nil {
		duration = video.ContentDetails.Duration
	}

	content := fmt.Sprintf("Title: %s\nDescription: %s", title, description)
	metadata := map[string]any{
		"source":   "youtube",
		"url":      rawURL,
		"title":    title,
		"duration": duration,
	}
	return []Item{TextItem(content, metadata)}, nil
}

// VideoID pulls the video identifier out of the common YouTube URL shapes
// (watch?v=, youtu.be/, /embed/, /shorts/).
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL %q: %w", rawURL, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("could not find a video id in %q", rawURL)
}
