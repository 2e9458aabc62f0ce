package spider

import (
	"context"
	"fmt"
	"log"
	"time"

	"books-scraper/fetcher"
	"books-scraper/models"
	"books-scraper/parser"
)

// Sink receives each Book as it is extracted, in page-visit then
// document order. A sink error aborts the crawl.
type Sink func(models.Book) error

// Crawler drives one crawl run: fetch a page, extract its records,
// follow the next link, until the chain ends.
type Crawler struct {
	fetcher  fetcher.Fetcher
	parser   *parser.Parser
	spider   Spider
	maxPages int // 0 means follow the chain to the end
}

// NewCrawler creates a Crawler for the given spider.
func NewCrawler(f fetcher.Fetcher, sp Spider, maxPages int) *Crawler {
	return &Crawler{
		fetcher:  f,
		parser:   parser.New(sp.Selectors),
		spider:   sp,
		maxPages: maxPages,
	}
}

// Run walks the next-link chain starting at the spider's seed URL,
// handing every extracted record to sink. Pages are visited strictly
// one at a time.
//
// A fetch failure aborts the whole crawl; the returned error names the
// URL that was being processed. Cancelling ctx stops further fetches
// and returns ctx's error together with the stats accumulated so far,
// so callers can still flush what the sink already received. A next
// link leading back to an already visited URL ends the crawl instead
// of looping forever.
func (c *Crawler) Run(ctx context.Context, sink Sink) (*models.Stats, error) {
	stats := &models.Stats{
		SeedURL:   c.spider.SeedURL,
		StartTime: time.Now(),
	}
	defer func() { stats.EndTime = time.Now() }()

	visited := make(map[string]bool)
	pageURL := c.spider.SeedURL

	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if visited[pageURL] {
			log.Printf("Warning: next link loops back to %s, stopping crawl\n", pageURL)
			break
		}
		visited[pageURL] = true

		doc, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return stats, fmt.Errorf("crawl of %s aborted: %w", pageURL, err)
		}
		stats.PagesFetched++

		books := c.parser.ExtractBooks(doc, pageURL)
		for _, book := range books {
			book.PageNumber = stats.PagesFetched
			if err := sink(book); err != nil {
				return stats, fmt.Errorf("sink failed for record from %s: %w", pageURL, err)
			}
			stats.BooksFound++
		}
		log.Printf("Page %d: extracted %d records from %s\n", stats.PagesFetched, len(books), pageURL)

		if c.maxPages > 0 && stats.PagesFetched >= c.maxPages {
			log.Printf("Reached page limit (%d), stopping crawl\n", c.maxPages)
			break
		}

		next, err := c.parser.NextPageURL(doc, pageURL)
		if err != nil {
			return stats, err
		}
		pageURL = next
	}

	return stats, nil
}

// Collect runs the crawl with a collecting sink and returns the full
// ordered result set.
func (c *Crawler) Collect(ctx context.Context) ([]models.Book, *models.Stats, error) {
	var books []models.Book
	stats, err := c.Run(ctx, func(b models.Book) error {
		books = append(books, b)
		return nil
	})
	return books, stats, err
}
