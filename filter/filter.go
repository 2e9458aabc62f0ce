package filter

import (
	"regexp"
	"strconv"
	"strings"

	"books-scraper/config"
	"books-scraper/models"
)

// Filter applies filter criteria to books.
type Filter struct {
	cfg *config.Config
}

// NewFilter creates a new Filter instance.
func NewFilter(cfg *config.Config) *Filter {
	return &Filter{cfg: cfg}
}

// ApplyFilters filters books based on the configuration. Order is
// preserved.
func (f *Filter) ApplyFilters(books []models.Book) []models.Book {
	var filtered []models.Book

	for _, book := range books {
		if f.matchesFilters(book) {
			filtered = append(filtered, book)
		}
	}

	return filtered
}

// matchesFilters checks if a book matches all filter criteria.
func (f *Filter) matchesFilters(book models.Book) bool {
	if sub := f.cfg.Filters.TitleContains; sub != "" {
		if !strings.Contains(strings.ToLower(book.Title), strings.ToLower(sub)) {
			return false
		}
	}

	// Price bounds compare against a numeric reading of the price
	// text. A price we cannot parse never excludes the record.
	if f.cfg.Filters.MinPrice > 0 || f.cfg.Filters.MaxPrice > 0 {
		if price, ok := parsePrice(book.Price); ok {
			if f.cfg.Filters.MinPrice > 0 && price < f.cfg.Filters.MinPrice {
				return false
			}
			if f.cfg.Filters.MaxPrice > 0 && price > f.cfg.Filters.MaxPrice {
				return false
			}
		}
	}

	return true
}

var priceRe = regexp.MustCompile(`[\d]{1,3}(?:,\d{3})*(?:\.[\d]+)?`)

// parsePrice extracts the numeric amount from a currency-formatted
// string like "£51.77" or "$1,234.50".
func parsePrice(text string) (float64, bool) {
	match := priceRe.FindString(text)
	if match == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
