// Package media stores downloaded payloads on disk, one MP3 file per
// episode, and supports the content-fingerprint scan the retrieval stage
// uses to detect episodes that are already present.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/podarr/podarr/internal/library"
)

// Store writes episode payloads under per-series directories and scans
// them for fingerprints. Concurrent writers are safe without locking
// because every episode maps to a distinct filename.
type Store struct {
	baseDir     string
	tempDir     string
	scanWorkers int
}

// NewStore creates a binary store rooted at baseDir. Payloads land in
// <baseDir>/<series dir>/; in-progress writes go through tempDir so a
// crash never leaves a partial file in a series directory. scanWorkers
// bounds the fingerprint scan pool.
func NewStore(baseDir, tempDir string, series []library.Series, scanWorkers int) (*Store, error) {
	if scanWorkers < 1 {
		scanWorkers = 1
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", tempDir, err)
	}
	for _, s := range series {
		if err := os.MkdirAll(filepath.Join(baseDir, s.DirName()), 0o755); err != nil {
			return nil, fmt.Errorf("create series dir for %s: %w", s, err)
		}
	}
	return &Store{baseDir: baseDir, tempDir: tempDir, scanWorkers: scanWorkers}, nil
}

// Filename returns the on-disk name for an episode's payload.
func Filename(e *library.Episode) string {
	return fmt.Sprintf("%s - %s.mp3", e.SequenceLabel, SanitizeFilename(e.Title))
}

// Path returns the full destination path for an episode's payload.
func (s *Store) Path(e *library.Episode) string {
	return filepath.Join(s.baseDir, e.Series.DirName(), Filename(e))
}

// Write durably stores the payload for an episode, overwriting any file
// with the same name. The bytes are synced before the temp file is
// renamed into the series directory, so once Write returns the caller may
// record success.
func (s *Store) Write(e *library.Episode, payload []byte) error {
	name := Filename(e)
	tmpPath := filepath.Join(s.tempDir, name)

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp payload: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write payload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close payload: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(e)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("move payload into place: %w", err)
	}
	return nil
}

// FingerprintExisting fingerprints the file already at the episode's
// destination path, if one is present. It lets the retrieval stage adopt
// a payload that reached the disk out-of-band instead of fetching it
// again.
func (s *Store) FingerprintExisting(e *library.Episode) (string, bool, error) {
	path := s.Path(e)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", path, err)
	}
	fp, err := fingerprintFile(path)
	if err != nil {
		return "", false, err
	}
	return fp, true, nil
}

// Fingerprints scans the series' directory and returns the fingerprint of
// every payload file present. Files placed there out-of-band count too,
// which is what lets the retrieval stage skip episodes the metadata store
// has never heard were downloaded.
func (s *Store) Fingerprints(ctx context.Context, series library.Series) (map[string]struct{}, error) {
	paths, err := s.listPayloads(series)
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.scanWorkers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := fingerprintFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			out[fp] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFilenames returns the base names of every payload file in the
// series' directory, out-of-band files included.
func (s *Store) ListFilenames(series library.Series) ([]string, error) {
	paths, err := s.listPayloads(series)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, filepath.Base(path))
	}
	return out, nil
}

func (s *Store) listPayloads(series library.Series) ([]string, error) {
	dir := filepath.Join(s.baseDir, series.DirName())
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out, nil
}

// fingerprintFile reads at most FingerprintLen bytes; the rest of the
// file never contributes to the digest.
func fingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, FingerprintLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Fingerprint(buf[:n]), nil
}
