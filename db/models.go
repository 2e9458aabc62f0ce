package db

import (
	"database/sql"
	"fmt"
	"time"

	"books-scraper/models"
)

// Request represents one queued crawl request.
type Request struct {
	ID         int
	Spider     string
	URL        string
	Output     string
	Status     string
	BooksCount int
	PagesCount int
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateRequest queues a crawl for the named spider. url may be "" to
// use the spider's seed URL; output may be "" to skip the CSV file.
func (db *DB) CreateRequest(spiderName, url, output string) (*Request, error) {
	var req Request
	err := db.conn.QueryRow(`
		INSERT INTO crawl_requests (spider, url, output)
		VALUES ($1, $2, $3)
		RETURNING id, spider, url, COALESCE(output, ''), status, created_at, updated_at
	`, spiderName, url, output).Scan(&req.ID, &req.Spider, &req.URL, &req.Output, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return &req, nil
}

// GetNextCreatedRequest returns the oldest request with status
// 'created', or nil when the queue is empty.
func (db *DB) GetNextCreatedRequest() (*Request, error) {
	var req Request
	err := db.conn.QueryRow(`
		SELECT id, spider, url, COALESCE(output, ''), status, books_count, pages_count, COALESCE(last_error, ''), created_at, updated_at
		FROM crawl_requests
		WHERE status = 'created'
		ORDER BY created_at
		LIMIT 1
	`).Scan(&req.ID, &req.Spider, &req.URL, &req.Output, &req.Status, &req.BooksCount, &req.PagesCount, &req.LastError, &req.CreatedAt, &req.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next request: %w", err)
	}
	return &req, nil
}

// GetRequestByID returns a request by its ID.
func (db *DB) GetRequestByID(requestID int) (*Request, error) {
	var req Request
	err := db.conn.QueryRow(`
		SELECT id, spider, url, COALESCE(output, ''), status, books_count, pages_count, COALESCE(last_error, ''), created_at, updated_at
		FROM crawl_requests
		WHERE id = $1
	`, requestID).Scan(&req.ID, &req.Spider, &req.URL, &req.Output, &req.Status, &req.BooksCount, &req.PagesCount, &req.LastError, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", requestID, err)
	}
	return &req, nil
}

// UpdateRequestStatus updates the status of a request.
func (db *DB) UpdateRequestStatus(requestID int, status string) error {
	_, err := db.conn.Exec(`
		UPDATE crawl_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, status, requestID)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}

// UpdateRequestCounts records how many books and pages a crawl produced.
func (db *DB) UpdateRequestCounts(requestID, booksCount, pagesCount int) error {
	_, err := db.conn.Exec(`
		UPDATE crawl_requests SET books_count = $1, pages_count = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3
	`, booksCount, pagesCount, requestID)
	if err != nil {
		return fmt.Errorf("failed to update request counts: %w", err)
	}
	return nil
}

// SetRequestError marks a request failed and records the error text.
func (db *DB) SetRequestError(requestID int, errText string) error {
	_, err := db.conn.Exec(`
		UPDATE crawl_requests SET status = 'failed', last_error = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, errText, requestID)
	if err != nil {
		return fmt.Errorf("failed to set request error: %w", err)
	}
	return nil
}

// SaveBook stores one extracted book for a request.
func (db *DB) SaveBook(requestID int, book models.Book) error {
	var rating *int
	if book.Rating > 0 {
		rating = &book.Rating
	}

	_, err := db.conn.Exec(`
		INSERT INTO books (request_id, title, price, url, page_number, rating, availability, category, upc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, requestID, book.Title, book.Price, book.URL, book.PageNumber, rating,
		nullIfEmpty(book.Availability), nullIfEmpty(book.Category), nullIfEmpty(book.UPC))
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}
	return nil
}

// GetBooksByRequestID returns a request's books in extraction order.
func (db *DB) GetBooksByRequestID(requestID int) ([]models.Book, error) {
	rows, err := db.conn.Query(`
		SELECT title, price, COALESCE(url, ''), COALESCE(page_number, 0)
		FROM books
		WHERE request_id = $1
		ORDER BY id
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.Title, &b.Price, &b.URL, &b.PageNumber); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
