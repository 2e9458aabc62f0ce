package models

import "time"

// Book represents one catalog entry extracted from a listing page.
// Price is kept exactly as it appears on the page ("£51.77"), it is
// never converted to a number.
type Book struct {
	Title      string
	Price      string
	URL        string
	PageNumber int // Listing page the book was found on (1-based)

	// Detail page fields, filled only when detail enrichment runs
	Rating       int // 1-5 stars, 0 when unknown
	Availability string
	Description  string
	UPC          string
	Category     string
}

// Stats summarizes a single crawl run.
type Stats struct {
	SeedURL      string
	PagesFetched int
	BooksFound   int
	StartTime    time.Time
	EndTime      time.Time
}

// Duration returns how long the crawl took.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
