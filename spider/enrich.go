package spider

import (
	"context"
	"log"

	"books-scraper/fetcher"
	"books-scraper/models"
	"books-scraper/parser"
)

// EnrichDetails visits each book's own product page and fills in the
// detail fields. A page that fails to fetch is logged and skipped; the
// listing record keeps its original values. Cancelling ctx stops the
// remaining fetches.
func EnrichDetails(ctx context.Context, f fetcher.Fetcher, books []models.Book) error {
	dp := parser.NewDetailParser()

	for i := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if books[i].URL == "" {
			continue
		}

		doc, err := f.Fetch(ctx, books[i].URL)
		if err != nil {
			log.Printf("Warning: failed to fetch detail page %s: %v\n", books[i].URL, err)
			continue
		}
		dp.Enrich(doc, &books[i])
	}

	return nil
}
