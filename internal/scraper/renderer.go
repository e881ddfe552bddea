// Package scraper extracts episode metadata from the archive's rendered
// pages: listing pages yield episode records, detail pages yield the
// resolvable download link.
package scraper

import "context"

// Element is one matched block on a rendered page. Lookups take
// CSS-style selectors scoped to the block.
type Element interface {
	// Text returns the text of the first descendant matching selector.
	Text(selector string) (string, bool)
	// Attr returns an attribute of the first descendant matching selector.
	Attr(selector, attr string) (string, bool)
}

// Renderer is the external page-rendering capability. Implementations
// fetch and render a page and expose selector-based extraction; failures
// (timeouts, element not found) surface as per-job errors upstream.
type Renderer interface {
	// Elements returns every block matching selector on the page.
	Elements(ctx context.Context, pageURL, selector string) ([]Element, error)
	// Attr returns an attribute of the first element matching selector.
	Attr(ctx context.Context, pageURL, selector, attr string) (string, error)
}
