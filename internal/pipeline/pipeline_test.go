package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podarr/podarr/internal/library"
)

// TestPipeline_PartialResolutionScenario is the canonical end-to-end
// case: three episodes discovered, two resolve, one has no download
// link; retrieval downloads exactly the resolved two and the third is
// left for a later run.
func TestPipeline_PartialResolutionScenario(t *testing.T) {
	env := newTestEnv(t)
	env.seedResolved(t, "No. 1", "One", "e1", "https://cdn.example.com/e1.mp3", []byte("audio one"))
	env.seedResolved(t, "No. 2", "Two", "e2", "https://cdn.example.com/e2.mp3", []byte("audio two"))
	env.addListing(library.FreakonomicsRadio, "No. 3", "Three", "e3", "") // link missing

	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))

	got := env.readAll(t, library.FreakonomicsRadio)
	require.Len(t, got, 3)

	assert.True(t, got["0001"].Fingerprinted())
	assert.True(t, got["0002"].Fingerprinted())
	assert.False(t, got["0003"].Resolved())
	assert.False(t, got["0003"].Fingerprinted())

	for _, label := range []string{"0001", "0002"} {
		_, err := os.Stat(env.files.Path(got[label]))
		assert.NoError(t, err, "payload for %s should be on disk", label)
	}

	// The next run picks e3 up once its link appears.
	env.renderer.mu.Lock()
	env.renderer.hrefs["https://freakonomics.com/podcast/e3/"] = "https://cdn.example.com/e3.mp3"
	env.renderer.mu.Unlock()
	env.fetcher.mu.Lock()
	env.fetcher.payloads["https://cdn.example.com/e3.mp3"] = []byte("audio three")
	env.fetcher.mu.Unlock()

	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))
	got = env.readAll(t, library.FreakonomicsRadio)
	assert.True(t, got["0003"].Fingerprinted())
}

func TestPipeline_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedResolved(t, "No. 1", "One", "e1", "https://cdn.example.com/e1.mp3", []byte("audio one"))
	env.seedResolved(t, "No. 2", "Two", "e2", "https://cdn.example.com/e2.mp3", []byte("audio two"))

	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))
	first := env.readAll(t, library.FreakonomicsRadio)

	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))
	second := env.readAll(t, library.FreakonomicsRadio)

	assert.Equal(t, first, second, "a second run with no source changes is a no-op")
	assert.Equal(t, 1, env.fetcher.fetchCount("https://cdn.example.com/e1.mp3"))
	assert.Equal(t, 1, env.fetcher.fetchCount("https://cdn.example.com/e2.mp3"))

	// Exactly one file per episode.
	dir := filepath.Dir(env.files.Path(first["0001"]))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// TestPipeline_ResumeAfterDiscovery cancels between discovery and
// resolution, then re-runs from scratch: the second run resolves and
// downloads exactly what the first left behind.
func TestPipeline_ResumeAfterDiscovery(t *testing.T) {
	env := newTestEnv(t)
	env.seedResolved(t, "No. 1", "One", "e1", "https://cdn.example.com/e1.mp3", []byte("audio one"))

	canc := NewCanceller()
	require.NoError(t, env.discovery().Run(context.Background(), canc))
	canc.Cancel()

	// The driver observes the flag and skips the remaining stages.
	require.NoError(t, New(canc, nil, env.resolution(1), env.retrieval(1)).Run(context.Background()))

	got := env.readAll(t, library.FreakonomicsRadio)
	require.Len(t, got, 1)
	assert.False(t, got["0001"].Resolved())

	// Fresh run finishes the job.
	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))
	got = env.readAll(t, library.FreakonomicsRadio)
	assert.True(t, got["0001"].Fingerprinted())
}

func TestPipeline_CancelledBeforeStartIsGraceful(t *testing.T) {
	env := newTestEnv(t)
	env.seedResolved(t, "No. 1", "One", "e1", "https://cdn.example.com/e1.mp3", []byte("audio"))

	canc := NewCanceller()
	canc.Cancel()

	require.NoError(t, env.pipeline(canc).Run(context.Background()),
		"cancellation is a graceful early exit, not a failure")
	assert.Empty(t, env.readAll(t, library.FreakonomicsRadio))
}

func TestPipeline_EmptyRun(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.pipeline(NewCanceller()).Run(context.Background()))
	assert.Empty(t, env.readAll(t, library.FreakonomicsRadio))
}
