package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeID_Deterministic(t *testing.T) {
	url := "https://freakonomics.com/podcast/example-episode/"
	a := EpisodeID(url)
	b := EpisodeID(url)
	assert.Equal(t, a, b, "same URL must always yield the same id")
	assert.NotEqual(t, a, EpisodeID(url+"other/"))
}

func TestNewEpisode(t *testing.T) {
	published := time.Date(2022, 7, 14, 0, 0, 0, 0, time.UTC)
	e := NewEpisode(FreakonomicsRadio, "0001", "In Praise of Maintenance", published, "https://freakonomics.com/podcast/maintenance/")

	assert.Equal(t, EpisodeID("https://freakonomics.com/podcast/maintenance/"), e.ID)
	assert.Equal(t, FreakonomicsRadio, e.Series)
	assert.False(t, e.Resolved())
	assert.False(t, e.Fingerprinted())
}

func TestEpisode_JSONEncoding(t *testing.T) {
	published := time.Date(2022, 7, 14, 0, 0, 0, 0, time.UTC)
	e := NewEpisode(NoStupidQuestions, "0107", "Is It Wrong to Enjoy Yourself?", published, "https://freakonomics.com/podcast/enjoy/")
	e.DownloadLocation = "https://cdn.example.com/107.mp3"

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "NSQ", raw["series"])
	assert.Equal(t, "0107", raw["sequence_label"])
	assert.Equal(t, "2022-07-14 00:00:00 UTC", raw["published_at"])
	assert.Equal(t, "https://cdn.example.com/107.mp3", raw["download_location"])
	_, present := raw["content_fingerprint"]
	assert.False(t, present, "empty fingerprint must be omitted")

	var back Episode
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *e, back)
}

func TestDate_RejectsBadEncoding(t *testing.T) {
	var d Date
	err := d.UnmarshalJSON([]byte(`"14/07/2022"`))
	assert.Error(t, err)
}
