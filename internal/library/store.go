// Package library holds the episode domain model and the per-series
// metadata store that is the single source of truth for what is already
// known about each series.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the per-series metadata record set, one JSON file per series.
//
// Each series has its own lock; callers for the same series serialize
// through it, callers for different series do not contend. EditByID is a
// read-modify-write and holds the lock for the whole sequence so that
// concurrent workers editing the same series cannot lose updates.
type Store struct {
	files map[Series]*seriesFile
}

type seriesFile struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a metadata store rooted at dir, covering the given
// series. The directory is created if it does not exist.
func NewStore(dir string, series []Series) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	files := make(map[Series]*seriesFile, len(series))
	for _, s := range series {
		files[s] = &seriesFile{path: filepath.Join(dir, s.MetadataFilename())}
	}
	return &Store{files: files}, nil
}

// ReadAll returns every known episode for the series in storage order.
// A missing or empty record file means no records yet, not an error.
func (st *Store) ReadAll(series Series) ([]*Episode, error) {
	f, ok := st.files[series]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeries, series)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readAll()
}

// OverwriteAll atomically replaces the series' entire record set.
func (st *Store) OverwriteAll(series Series, episodes []*Episode) error {
	f, ok := st.files[series]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeries, series)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overwriteAll(episodes)
}

// EditByID upserts a single episode keyed by its id: any existing record
// with the same id is removed, the given episode is appended, and the
// whole set is rewritten. This is the only mutation primitive the
// pipeline uses.
func (st *Store) EditByID(episode *Episode) error {
	f, ok := st.files[episode.Series]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSeries, episode.Series)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return err
	}
	kept := make([]*Episode, 0, len(all)+1)
	for _, e := range all {
		if e.ID != episode.ID {
			kept = append(kept, e)
		}
	}
	kept = append(kept, episode)
	return f.overwriteAll(kept)
}

func (f *seriesFile) readAll() ([]*Episode, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var episodes []*Episode
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return episodes, nil
}

// overwriteAll writes the record set to a temp file in the same directory
// and renames it into place, so readers never observe a torn write.
func (f *seriesFile) overwriteAll(episodes []*Episode) error {
	if episodes == nil {
		episodes = []*Episode{}
	}
	data, err := json.MarshalIndent(episodes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode episodes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
