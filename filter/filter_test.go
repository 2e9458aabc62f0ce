package filter

import (
	"testing"

	"books-scraper/config"
	"books-scraper/models"
)

func TestApplyFilters_PriceBounds(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Filters.MinPrice = 20
	cfg.Filters.MaxPrice = 50

	books := []models.Book{
		{Title: "Too Cheap", Price: "£9.99"},
		{Title: "Just Right", Price: "£25.00"},
		{Title: "Too Expensive", Price: "£51.77"},
		{Title: "Thousands", Price: "$1,234.50"},
		{Title: "Unparseable", Price: "call us"},
		{Title: "Empty", Price: ""},
	}

	got := NewFilter(cfg).ApplyFilters(books)

	want := []string{"Just Right", "Unparseable", "Empty"}
	if len(got) != len(want) {
		t.Fatalf("ApplyFilters() kept %d books, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestApplyFilters_TitleContains(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Filters.TitleContains = "light"

	books := []models.Book{
		{Title: "A Light in the Attic", Price: "£51.77"},
		{Title: "Soumission", Price: "£50.10"},
		{Title: "LIGHTHOUSE", Price: "£12.00"},
	}

	got := NewFilter(cfg).ApplyFilters(books)
	if len(got) != 2 {
		t.Fatalf("ApplyFilters() kept %d books, want 2", len(got))
	}
	if got[0].Title != "A Light in the Attic" || got[1].Title != "LIGHTHOUSE" {
		t.Errorf("unexpected titles: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestApplyFilters_NoCriteriaKeepsEverything(t *testing.T) {
	cfg := config.GetDefaultConfig()
	books := []models.Book{
		{Title: "A", Price: "£1.00"},
		{Title: "B", Price: ""},
	}

	got := NewFilter(cfg).ApplyFilters(books)
	if len(got) != len(books) {
		t.Errorf("ApplyFilters() kept %d books, want %d", len(got), len(books))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"pound price", "£51.77", 51.77, true},
		{"dollar with thousands", "$1,234.50", 1234.50, true},
		{"integer", "€20", 20, true},
		{"no digits", "free", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePrice(tt.input)
			if ok != tt.ok {
				t.Fatalf("parsePrice() ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && got != tt.expected {
				t.Errorf("parsePrice() = %v, want %v", got, tt.expected)
			}
		})
	}
}
