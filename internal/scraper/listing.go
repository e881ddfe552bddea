package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/podarr/podarr/internal/library"
)

// Selectors for the archive listing markup.
const (
	archiveEntrySelector = ".archive_entry"
	episodeNumSelector   = ".episode_number a"
	entryContentSelector = ".entry_content a"
	dateSelector         = ".date"
)

// listingDateLayout is the publication date format on listing pages.
const listingDateLayout = "01/02/06"

// ListEpisodes renders a series' archive listing and parses every entry
// into an episode record. Entries missing a number, title, or date are
// skipped; the archive mixes promos and specials into the listing and
// those carry no usable fields.
func ListEpisodes(ctx context.Context, r Renderer, series library.Series) ([]*library.Episode, error) {
	elements, err := r.Elements(ctx, series.ArchiveURL(), archiveEntrySelector)
	if err != nil {
		return nil, fmt.Errorf("list %s archive: %w", series, err)
	}
	return parseEntries(series, elements), nil
}

func parseEntries(series library.Series, elements []Element) []*library.Episode {
	out := make([]*library.Episode, 0, len(elements))
	for _, el := range elements {
		e, ok := parseEntry(series, el)
		if !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseEntry(series library.Series, el Element) (*library.Episode, bool) {
	rawNum, ok := el.Text(episodeNumSelector)
	if !ok {
		return nil, false
	}
	label := sequenceLabel(rawNum)

	title, ok := el.Text(entryContentSelector)
	if !ok {
		return nil, false
	}
	pageURL, ok := el.Attr(entryContentSelector, "href")
	if !ok {
		return nil, false
	}

	rawDate, ok := el.Text(dateSelector)
	if !ok {
		return nil, false
	}
	published, err := time.ParseInLocation(listingDateLayout, rawDate, time.UTC)
	if err != nil {
		return nil, false
	}

	return library.NewEpisode(series, label, title, published, pageURL), true
}

// sequenceLabel turns a listing number ("No. 512") into a zero-padded
// label, or returns the raw text when no number is parseable.
func sequenceLabel(raw string) string {
	s := strings.TrimPrefix(raw, "No. ")
	if n, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf("%04d", n)
	}
	return s
}
