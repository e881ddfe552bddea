package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the fixed textual encoding for published_at.
const dateLayout = "2006-01-02 15:04:05 MST"

// Date is a timestamp stored with the record set's fixed textual encoding.
// Precision is date-only in practice; the time portion is always midnight UTC.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse published_at %q: %w", s, err)
	}
	d.Time = t.UTC()
	return nil
}

// Episode is one content item tracked through discovery, resolution,
// and retrieval. DownloadLocation and ContentFingerprint start empty and
// are filled in by the resolution and retrieval stages respectively.
type Episode struct {
	ID                 string `json:"id"`
	Series             Series `json:"series"`
	SequenceLabel      string `json:"sequence_label"`
	Title              string `json:"title"`
	PublishedAt        Date   `json:"published_at"`
	SourcePageURL      string `json:"source_page_url"`
	DownloadLocation   string `json:"download_location,omitempty"`
	ContentFingerprint string `json:"content_fingerprint,omitempty"`
}

// NewEpisode builds an episode discovered on a listing page.
// The id is a v5 UUID over the canonical page URL, so re-discovering the
// same page always yields the same id.
func NewEpisode(series Series, sequenceLabel, title string, publishedAt time.Time, pageURL string) *Episode {
	return &Episode{
		ID:            EpisodeID(pageURL),
		Series:        series,
		SequenceLabel: sequenceLabel,
		Title:         title,
		PublishedAt:   Date{publishedAt.UTC()},
		SourcePageURL: pageURL,
	}
}

// EpisodeID derives the stable episode identifier from a source page URL.
func EpisodeID(pageURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(pageURL)).String()
}

// Resolved reports whether the download location has been filled in.
func (e *Episode) Resolved() bool { return e.DownloadLocation != "" }

// Fingerprinted reports whether a payload for this episode has been
// downloaded and recorded.
func (e *Episode) Fingerprinted() bool { return e.ContentFingerprint != "" }
