package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageRenderer renders pages by fetching them over HTTP and parsing the
// returned document.
type PageRenderer struct {
	client *http.Client
}

// NewPageRenderer creates a renderer with a sensible request timeout.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *PageRenderer) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// Elements returns every block matching selector on the page.
func (r *PageRenderer) Elements(ctx context.Context, pageURL, selector string) ([]Element, error) {
	doc, err := r.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	var out []Element
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, selectionElement{sel})
	})
	return out, nil
}

// Attr returns an attribute of the first element matching selector.
func (r *PageRenderer) Attr(ctx context.Context, pageURL, selector, attr string) (string, error) {
	doc, err := r.document(ctx, pageURL)
	if err != nil {
		return "", err
	}
	val, ok := doc.Find(selector).First().Attr(attr)
	if !ok {
		return "", fmt.Errorf("%s: no %q attribute at %q", pageURL, attr, selector)
	}
	return val, nil
}

type selectionElement struct {
	sel *goquery.Selection
}

func (e selectionElement) Text(selector string) (string, bool) {
	found := e.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(found.Text()), true
}

func (e selectionElement) Attr(selector, attr string) (string, bool) {
	found := e.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return found.Attr(attr)
}
