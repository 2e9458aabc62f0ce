package fetcher

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a URL and returns the parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	// Close releases any resources held by the fetcher.
	Close() error
}

// FetchError is a transport-level failure while retrieving a page. It
// always carries the URL that was being processed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
