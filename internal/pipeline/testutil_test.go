package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/podarr/podarr/internal/events"
	"github.com/podarr/podarr/internal/library"
	"github.com/podarr/podarr/internal/media"
	"github.com/podarr/podarr/internal/scraper"
)

// stubElement is one canned listing block.
type stubElement struct {
	num, title, href, date string
}

func (s stubElement) Text(selector string) (string, bool) {
	switch selector {
	case ".episode_number a":
		return s.num, s.num != ""
	case ".entry_content a":
		return s.title, s.title != ""
	case ".date":
		return s.date, s.date != ""
	}
	return "", false
}

func (s stubElement) Attr(selector, attr string) (string, bool) {
	if selector == ".entry_content a" && attr == "href" {
		return s.href, s.href != ""
	}
	return "", false
}

// stubRenderer serves canned listings and download hrefs.
type stubRenderer struct {
	mu       sync.Mutex
	listings map[string][]scraper.Element // archive URL -> entries
	hrefs    map[string]string            // page URL -> download href
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{
		listings: map[string][]scraper.Element{},
		hrefs:    map[string]string{},
	}
}

func (s *stubRenderer) Elements(_ context.Context, pageURL, _ string) ([]scraper.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[pageURL], nil
}

func (s *stubRenderer) Attr(_ context.Context, pageURL, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	href, ok := s.hrefs[pageURL]
	if !ok {
		return "", fmt.Errorf("element not found on %s", pageURL)
	}
	return href, nil
}

// stubFetcher serves canned payloads and counts fetches per URL.
type stubFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	fetches  map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		payloads: map[string][]byte{},
		fetches:  map[string]int{},
	}
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[url]++
	payload, ok := s.payloads[url]
	if !ok {
		return nil, fmt.Errorf("404 for %s", url)
	}
	return payload, nil
}

func (s *stubFetcher) fetchCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[url]
}

// testEnv wires real stores over a temp dir with stub collaborators.
type testEnv struct {
	store    *library.Store
	files    *media.Store
	bus      *events.Bus
	renderer *stubRenderer
	fetcher  *stubFetcher
	series   []library.Series
}

func newTestEnv(t *testing.T, series ...library.Series) *testEnv {
	t.Helper()
	if len(series) == 0 {
		series = []library.Series{library.FreakonomicsRadio}
	}

	base := t.TempDir()
	store, err := library.NewStore(filepath.Join(base, ".data"), series)
	require.NoError(t, err)
	files, err := media.NewStore(base, filepath.Join(base, ".temp"), series, 4)
	require.NoError(t, err)

	bus := events.NewBus(nil, nil)
	t.Cleanup(func() { _ = bus.Close() })

	return &testEnv{
		store:    store,
		files:    files,
		bus:      bus,
		renderer: newStubRenderer(),
		fetcher:  newStubFetcher(),
		series:   series,
	}
}

// addListing registers one archive entry and its download link.
func (env *testEnv) addListing(series library.Series, num, title, slug, downloadURL string) string {
	pageURL := "https://freakonomics.com/podcast/" + slug + "/"
	env.renderer.mu.Lock()
	defer env.renderer.mu.Unlock()
	env.renderer.listings[series.ArchiveURL()] = append(
		env.renderer.listings[series.ArchiveURL()],
		stubElement{num: num, title: title, href: pageURL, date: "07/14/22"},
	)
	if downloadURL != "" {
		env.renderer.hrefs[pageURL] = downloadURL
	}
	return pageURL
}

func (env *testEnv) discovery() *Discovery {
	return NewDiscovery(env.renderer, env.store, env.series, env.bus)
}

func (env *testEnv) resolution(workers int) *Resolution {
	return NewResolution(env.renderer, env.store, env.series, workers, env.bus)
}

func (env *testEnv) retrieval(workers int) *Retrieval {
	return NewRetrieval(env.fetcher, env.store, env.files, env.series, workers, env.bus)
}

func (env *testEnv) pipeline(canc *Canceller) *Pipeline {
	return New(canc, nil, env.discovery(), env.resolution(2), env.retrieval(2))
}

func (env *testEnv) readAll(t *testing.T, series library.Series) map[string]*library.Episode {
	t.Helper()
	all, err := env.store.ReadAll(series)
	require.NoError(t, err)
	out := make(map[string]*library.Episode, len(all))
	for _, e := range all {
		out[e.SequenceLabel] = e
	}
	return out
}
