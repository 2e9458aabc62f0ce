package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"books-scraper/config"
	"books-scraper/db"
	"books-scraper/export"
	"books-scraper/fetcher"
	"books-scraper/filter"
	"books-scraper/models"
	"books-scraper/scheduler"
	"books-scraper/sheets"
	"books-scraper/spider"
)

func main() {
	// Parse command line arguments
	spiderName := flag.String("spider", "books", "Name of the spider to run")
	seedURL := flag.String("url", "", "Seed URL (optional, overrides the spider's default)")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	output := flag.String("o", "", "Output CSV path (overrides config)")
	maxPages := flag.Int("pages", -1, "Maximum number of pages to crawl, 0 = unlimited (overrides config)")
	stream := flag.Bool("stream", false, "Stream records to the CSV as they are extracted instead of collecting first")
	details := flag.Bool("details", false, "Visit each book's product page and include detail fields")
	browser := flag.Bool("browser", false, "Fetch pages with a headless browser instead of plain HTTP")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL to also write results to")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	serve := flag.Bool("serve", false, "Run the request queue scheduler instead of a one-off crawl")
	enqueue := flag.Bool("enqueue", false, "Queue a crawl request in the database and exit")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *output != "" {
		cfg.Output = *output
	}
	if *maxPages >= 0 {
		cfg.MaxPages = *maxPages
	}

	switch {
	case *serve:
		runScheduler(cfg)
	case *enqueue:
		runEnqueue(*spiderName, *seedURL, cfg.Output)
	default:
		runCrawl(cfg, *spiderName, *seedURL, *stream, *details, *browser, *spreadsheetURL, *credentialsPath)
	}
}

// loadConfig loads the config file, falling back to defaults when it
// is absent.
func loadConfig(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Could not load config from %s, using defaults: %v\n", path, err)
		return config.GetDefaultConfig()
	}
	return cfg
}

// runCrawl runs one crawl to completion and writes the outputs.
func runCrawl(cfg *config.Config, spiderName, seedURL string, stream, details, browser bool, spreadsheetURL, credentialsPath string) {
	sp, err := spider.Lookup(spiderName)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	if seedURL != "" {
		sp.SeedURL = seedURL
	}

	f := newFetcher(cfg, browser)
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close fetcher: %v\n", err)
		}
	}()

	// Ctrl-C stops further fetches; whatever was accumulated still
	// gets written out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crawler := spider.NewCrawler(f, sp, cfg.MaxPages)

	if stream {
		runStreamingCrawl(ctx, crawler, cfg.Output)
		return
	}

	books, stats, err := crawler.Collect(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Fatalf("Crawl failed: %v\n", err)
		}
		log.Printf("Crawl cancelled, flushing %d records collected so far\n", len(books))
	}

	fmt.Printf("Found %d books across %d pages\n", stats.BooksFound, stats.PagesFetched)

	filtered := filter.NewFilter(cfg).ApplyFilters(books)
	if len(filtered) != len(books) {
		fmt.Printf("Found %d books after filtering\n", len(filtered))
	}

	if details {
		if err := spider.EnrichDetails(ctx, f, filtered); err != nil {
			log.Printf("Warning: detail enrichment stopped early: %v\n", err)
		}
	}

	writeCSV := export.WriteCSVFile
	if details {
		writeCSV = export.WriteDetailedCSVFile
	}
	if err := writeCSV(cfg.Output, filtered); err != nil {
		log.Fatalf("Failed to write %s: %v\n", cfg.Output, err)
	}
	fmt.Printf("Wrote %d books to %s in %s\n", len(filtered), cfg.Output, stats.Duration().Round(time.Millisecond))

	if spreadsheetURL != "" {
		writeToSheets(spreadsheetURL, credentialsPath, filtered, sp.SeedURL)
	}
}

// runStreamingCrawl hands every record straight to the CSV file.
func runStreamingCrawl(ctx context.Context, crawler *spider.Crawler, output string) {
	sink, err := export.NewStreamingCSV(output)
	if err != nil {
		log.Fatalf("Failed to open %s: %v\n", output, err)
	}

	stats, err := crawler.Run(ctx, sink.Sink())
	if closeErr := sink.Close(); closeErr != nil {
		log.Printf("Warning: failed to close %s: %v\n", output, closeErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Crawl failed after %d records: %v\n", sink.Count(), err)
	}

	fmt.Printf("Wrote %d books from %d pages to %s in %s\n",
		stats.BooksFound, stats.PagesFetched, output, stats.Duration().Round(time.Millisecond))
}

// runScheduler processes queued crawl requests until interrupted.
func runScheduler(cfg *config.Config) {
	database, err := db.NewDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v\n", err)
	}
	defer database.Close()

	sched := scheduler.NewScheduler(database, cfg)
	sched.Start()
	log.Println("Scheduler started, waiting for crawl requests")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	sched.Stop()
}

// runEnqueue queues one crawl request and exits.
func runEnqueue(spiderName, seedURL, output string) {
	if _, err := spider.Lookup(spiderName); err != nil {
		log.Fatalf("%v\n", err)
	}

	database, err := db.NewDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v\n", err)
	}
	defer database.Close()

	req, err := database.CreateRequest(spiderName, seedURL, output)
	if err != nil {
		log.Fatalf("Failed to queue request: %v\n", err)
	}
	fmt.Printf("Queued crawl request %d for spider %q\n", req.ID, spiderName)
}

// newFetcher builds the configured fetcher implementation.
func newFetcher(cfg *config.Config, browser bool) fetcher.Fetcher {
	if browser {
		f, err := fetcher.NewRodFetcher()
		if err != nil {
			log.Fatalf("Failed to start browser fetcher: %v\n", err)
		}
		return f
	}
	return fetcher.NewCollyFetcher(cfg.UserAgent, cfg.Delay())
}

// writeToSheets mirrors the results into a Google Sheets spreadsheet.
func writeToSheets(spreadsheetURL, credentialsPath string, books []models.Book, seedURL string) {
	spreadsheetID := sheets.ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		log.Printf("Warning: could not extract spreadsheet ID from URL: %s\n", spreadsheetURL)
		return
	}

	writer, err := sheets.NewWriter(spreadsheetID, credentialsPath)
	if err != nil {
		log.Printf("Warning: failed to initialize Google Sheets writer: %v\n", err)
		return
	}

	sheetName := fmt.Sprintf("Crawl_%s", time.Now().Format("20060102_150405"))
	if _, _, err := writer.CreateSheetAndWriteBooks(sheetName, books, seedURL); err != nil {
		log.Printf("Warning: failed to write to Google Sheets: %v\n", err)
		return
	}
	fmt.Printf("Wrote %d books to Google Sheets\n", len(books))
}
