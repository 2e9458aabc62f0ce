package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// CollyFetcher implements the Fetcher interface using colly.
type CollyFetcher struct {
	base *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance. delay spaces out
// consecutive requests; userAgent may be "" to use a browser default.
func NewCollyFetcher(userAgent string, delay time.Duration) *CollyFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)

	if delay > 0 {
		c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       delay,
		})
	}

	return &CollyFetcher{base: c}
}

// Fetch implements the Fetcher interface. Transport failures and
// non-2xx responses come back as *FetchError.
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Clone gives a callback-free collector sharing the base
	// transport, so the limit rule still applies across fetches.
	c := cf.base.Clone()

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	c.Wait()

	if fetchErr != nil {
		return nil, &FetchError{URL: url, Err: fetchErr}
	}
	if body == nil {
		return nil, &FetchError{URL: url, Err: errors.New("no response received")}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	return doc, nil
}

// Close implements the Fetcher interface. The colly collector holds no
// resources that need releasing.
func (cf *CollyFetcher) Close() error {
	return nil
}
