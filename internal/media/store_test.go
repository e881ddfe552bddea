package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podarr/podarr/internal/library"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	base := t.TempDir()
	st, err := NewStore(base, filepath.Join(base, ".temp"), library.AllSeries, 4)
	require.NoError(t, err)
	return st, base
}

func testEpisode(title string) *library.Episode {
	return library.NewEpisode(library.FreakonomicsRadio, "0012", title,
		time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		"https://freakonomics.com/podcast/"+title+"/")
}

func TestStore_Write(t *testing.T) {
	st, base := newTestStore(t)
	e := testEpisode("Why Does Everyone Hate Flying?")
	payload := []byte("mp3 bytes")

	require.NoError(t, st.Write(e, payload))

	want := filepath.Join(base, "Freakonomics Radio", "0012 - Why Does Everyone Hate Flying.mp3")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// Nothing lingers in the temp dir.
	entries, err := os.ReadDir(filepath.Join(base, ".temp"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Write_Overwrites(t *testing.T) {
	st, _ := newTestStore(t)
	e := testEpisode("Re-released Episode")

	require.NoError(t, st.Write(e, []byte("first cut")))
	require.NoError(t, st.Write(e, []byte("second cut")))

	data, err := os.ReadFile(st.Path(e))
	require.NoError(t, err)
	assert.Equal(t, []byte("second cut"), data)
}

func TestStore_Fingerprints(t *testing.T) {
	st, base := newTestStore(t)

	a := []byte("payload a")
	b := []byte("payload b")
	require.NoError(t, st.Write(testEpisode("A"), a))
	require.NoError(t, st.Write(testEpisode("B"), b))

	// A file dropped into the directory out-of-band is scanned too.
	outOfBand := []byte("manually placed")
	require.NoError(t, os.WriteFile(
		filepath.Join(base, "Freakonomics Radio", "9999 - Manual.mp3"), outOfBand, 0o644))

	// Non-payload files are ignored.
	require.NoError(t, os.WriteFile(
		filepath.Join(base, "Freakonomics Radio", "notes.txt"), []byte("x"), 0o644))

	got, err := st.Fingerprints(context.Background(), library.FreakonomicsRadio)
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Contains(t, got, Fingerprint(a))
	assert.Contains(t, got, Fingerprint(b))
	assert.Contains(t, got, Fingerprint(outOfBand))
}

func TestStore_Fingerprints_EmptyDir(t *testing.T) {
	st, _ := newTestStore(t)

	got, err := st.Fingerprints(context.Background(), library.OffLeash)
	require.NoError(t, err)
	assert.Empty(t, got)
}
