package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podarr/podarr/internal/library"
)

func TestResolveDownloadURL(t *testing.T) {
	e := library.NewEpisode(library.NoStupidQuestions, "0042", "Ep", time.Now(), "https://freakonomics.com/podcast/ep-42/")
	r := &fakeRenderer{attrs: map[string]string{
		e.SourcePageURL: "https://cdn.example.com/ep42.mp3?dest-id=123&awCollectionId=456",
	}}

	url, err := ResolveDownloadURL(context.Background(), r, e)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ep42.mp3", url)
}

func TestResolveDownloadURL_MissingLink(t *testing.T) {
	e := library.NewEpisode(library.OffLeash, "0001", "Ep", time.Now(), "https://freakonomics.com/podcast/nope/")
	r := &fakeRenderer{attrs: map[string]string{}}

	_, err := ResolveDownloadURL(context.Background(), r, e)
	assert.Error(t, err)
}

func TestTruncateAfterMP3(t *testing.T) {
	assert.Equal(t, "https://a.com/x.mp3", truncateAfterMP3("https://a.com/x.mp3?track=1"))
	assert.Equal(t, "https://a.com/x.mp3", truncateAfterMP3("https://a.com/x.mp3"))
	// Links without .mp3 are passed through untouched.
	assert.Equal(t, "https://a.com/stream?id=9", truncateAfterMP3("https://a.com/stream?id=9"))
}
