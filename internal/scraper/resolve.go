package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/podarr/podarr/internal/library"
)

// downloadLinkSelector locates the download anchor on an episode page.
const downloadLinkSelector = ".download > a"

// ResolveDownloadURL renders an episode's page and extracts its download
// link. The CDN link carries tracking query parameters, so everything
// past the first ".mp3" is dropped; a link without ".mp3" is returned
// whole.
func ResolveDownloadURL(ctx context.Context, r Renderer, e *library.Episode) (string, error) {
	href, err := r.Attr(ctx, e.SourcePageURL, downloadLinkSelector, "href")
	if err != nil {
		return "", fmt.Errorf("resolve download url for %s %s: %w", e.Series, e.SequenceLabel, err)
	}
	return truncateAfterMP3(href), nil
}

func truncateAfterMP3(url string) string {
	idx := strings.Index(url, ".mp3")
	if idx < 0 {
		return url
	}
	return url[:idx+len(".mp3")]
}
