// Package export persists crawl results as CSV, either all at once
// after the crawl or streamed a record at a time.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"books-scraper/models"
	"books-scraper/spider"
)

// ErrEmptyResult is returned when a collecting write is invoked on an
// empty result set, instead of emitting a header-only table.
var ErrEmptyResult = errors.New("no records were collected")

var header = []string{"title", "price"}

var detailHeader = []string{"title", "price", "url", "rating", "availability", "category", "upc"}

// WriteCSV serializes books as a table: a header row followed by one
// row per record, in the order given. encoding/csv quotes fields that
// contain delimiters or quote characters.
func WriteCSV(w io.Writer, books []models.Book) error {
	if len(books) == 0 {
		return ErrEmptyResult
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, b := range books {
		if err := cw.Write([]string{b.Title, b.Price}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes books to path. The file is not created when the
// result set is empty.
func WriteCSVFile(path string, books []models.Book) error {
	if len(books) == 0 {
		return ErrEmptyResult
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, books); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteDetailedCSVFile writes books with their detail-page fields
// included.
func WriteDetailedCSVFile(path string, books []models.Book) error {
	if len(books) == 0 {
		return ErrEmptyResult
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(detailHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, b := range books {
		rating := ""
		if b.Rating > 0 {
			rating = strconv.Itoa(b.Rating)
		}
		row := []string{b.Title, b.Price, b.URL, rating, b.Availability, b.Category, b.UPC}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadCSV parses a table previously produced by WriteCSV back into
// records, preserving order.
func ReadCSV(r io.Reader) ([]models.Book, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}

	titleCol, priceCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "title":
			titleCol = i
		case "price":
			priceCol = i
		}
	}
	if titleCol == -1 || priceCol == -1 {
		return nil, errors.New("csv must contain 'title' and 'price' header columns")
	}

	var books []models.Book
	for _, row := range rows[1:] {
		b := models.Book{}
		if titleCol < len(row) {
			b.Title = row[titleCol]
		}
		if priceCol < len(row) {
			b.Price = row[priceCol]
		}
		books = append(books, b)
	}
	return books, nil
}

// StreamingCSV is the streaming sink variant: the header goes out when
// the file is opened and every record is flushed as it arrives, so a
// cancelled crawl still leaves the rows it got to on disk.
type StreamingCSV struct {
	f *os.File
	w *csv.Writer
	n int
}

// NewStreamingCSV opens path and writes the header row.
func NewStreamingCSV(path string) (*StreamingCSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &StreamingCSV{f: f, w: w}, nil
}

// Write appends one record and flushes it.
func (s *StreamingCSV) Write(b models.Book) error {
	if err := s.w.Write([]string{b.Title, b.Price}); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	s.n++
	return nil
}

// Sink adapts the writer to the crawl loop's sink callback.
func (s *StreamingCSV) Sink() spider.Sink {
	return s.Write
}

// Count reports how many records have been written.
func (s *StreamingCSV) Count() int {
	return s.n
}

// Close flushes and closes the underlying file.
func (s *StreamingCSV) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
