package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=abc123&t=10s", "abc123"},
		{"https://m.youtube.com/watch?v=abc123", "abc123"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/abc123", "abc123"},
		{"https://www.youtube.com/shorts/abc123", "abc123"},
	}

	for _, tc := range cases {
		got, err := VideoID(tc.url)
		require.NoError(t, err, "url %q", tc.url)
		assert.Equal(t, tc.want, got, "url %q", tc.url)
	}
}

func TestVideoIDRejectsNonVideoURLs(t *testing.T) {
	bad := []string{
		"https://www.youtube.com/",
		"https://youtu.be/",
		"https://vimeo.com/12345",
		"not a url at all",
	}
	for _, url := range bad {
		_, err := VideoID(url)
		assert.Error(t, err, "url %q", url)
	}
}
