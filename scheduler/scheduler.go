// Package scheduler drains the crawl request queue: it polls Postgres
// for created requests and runs them one at a time.
package scheduler

import (
	"context"
	"log"
	"time"

	"books-scraper/config"
	"books-scraper/db"
	"books-scraper/export"
	"books-scraper/fetcher"
	"books-scraper/models"
	"books-scraper/spider"
)

const pollInterval = 5 * time.Second

// Scheduler processes crawl requests from the database.
type Scheduler struct {
	db     *db.DB
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler.
func NewScheduler(database *db.DB, cfg *config.Config) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		db:     database,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the scheduler in a goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	log.Println("Scheduler stopped")
}

// run is the main scheduler loop.
func (s *Scheduler) run() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.processNextRequest()
		}
	}
}

// processNextRequest processes the next request with status 'created'.
func (s *Scheduler) processNextRequest() {
	req, err := s.db.GetNextCreatedRequest()
	if err != nil {
		log.Printf("Error getting next request: %v\n", err)
		return
	}

	if req == nil {
		// No requests to process
		return
	}

	log.Printf("Processing request ID %d (spider %s)\n", req.ID, req.Spider)

	if err := s.db.UpdateRequestStatus(req.ID, "in_progress"); err != nil {
		log.Printf("Error updating request status to in_progress: %v\n", err)
		return
	}

	sp, err := spider.Lookup(req.Spider)
	if err != nil {
		s.handleRequestError(req, err)
		return
	}
	if req.URL != "" {
		sp.SeedURL = req.URL
	}

	f := fetcher.NewCollyFetcher(s.cfg.UserAgent, s.cfg.Delay())
	defer f.Close()

	crawler := spider.NewCrawler(f, sp, s.cfg.MaxPages)

	// Stream every record into the books table as it is extracted,
	// so a failed crawl still leaves its partial results queryable.
	stats, err := crawler.Run(s.ctx, func(b models.Book) error {
		return s.db.SaveBook(req.ID, b)
	})
	if err != nil {
		s.handleRequestError(req, err)
		return
	}

	if err := s.db.UpdateRequestCounts(req.ID, stats.BooksFound, stats.PagesFetched); err != nil {
		log.Printf("Error updating request counts: %v\n", err)
	}

	if req.Output != "" {
		books, err := s.db.GetBooksByRequestID(req.ID)
		if err != nil {
			s.handleRequestError(req, err)
			return
		}
		if err := export.WriteCSVFile(req.Output, books); err != nil {
			s.handleRequestError(req, err)
			return
		}
	}

	if err := s.db.UpdateRequestStatus(req.ID, "done"); err != nil {
		log.Printf("Error updating request status to done: %v\n", err)
		return
	}

	log.Printf("Request ID %d done: %d books from %d pages in %s\n",
		req.ID, stats.BooksFound, stats.PagesFetched, stats.Duration().Round(time.Millisecond))
}

// handleRequestError marks the request failed and records the error.
func (s *Scheduler) handleRequestError(req *db.Request, err error) {
	log.Printf("Request ID %d failed: %v\n", req.ID, err)
	if dbErr := s.db.SetRequestError(req.ID, err.Error()); dbErr != nil {
		log.Printf("Error updating request status to failed: %v\n", dbErr)
	}
}
