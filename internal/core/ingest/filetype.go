package ingest

import (
	"path/filepath"
	"strings"

	"omniquery/internal/models"
)

var extensionTypes = map[string]models.FileType{
	".pdf":  models.FileTypeText,
	".docx": models.FileTypeText,
	".pptx": models.FileTypeText,
	".md":   models.FileTypeText,
	".txt":  models.FileTypeText,
	".png":  models.FileTypeImage,
	".jpg":  models.FileTypeImage,
	".jpeg": models.FileTypeImage,
	".mp3":  models.FileTypeAudio,
	".mp4":  models.FileTypeVideo,
}

// DetectFileType classifies a path by extension. Unrecognized extensions
// come back as FileTypeUnknown; the caller decides how to report that.
func DetectFileType(path string) models.FileType {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return models.FileTypeUnknown
}

var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// IsYouTubeURL reports whether the string looks like a YouTube video URL.
func IsYouTubeURL(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	host := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		host = rest[:i]
	}
	return youtubeHosts[strings.ToLower(host)]
}

// contentTypeFor maps a file type to the content class its chunks carry.
func contentTypeFor(t models.FileType) models.ContentType {
	switch t {
	case models.FileTypeImage:
		return models.ContentTypeImage
	case models.FileTypeAudio, models.FileTypeVideo, models.FileTypeYouTube:
		return models.ContentTypeAudioVideo
	default:
		return models.ContentTypeText
	}
}
