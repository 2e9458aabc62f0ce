package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func bookSelectors() Selectors {
	return Selectors{
		Item:      "article.product_pod",
		Title:     "h3 > a",
		TitleAttr: "title",
		Price:     ".price_color",
		NextLink:  "li.next a",
		NextAttr:  "href",
	}
}

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

func TestExtractBooks(t *testing.T) {
	html := `
	<html><body>
	<article class="product_pod">
		<h3><a href="catalogue/a-light-in-the-attic_1000/index.html" title="A Light in the Attic">A Light in the ...</a></h3>
		<p class="price_color">£51.77</p>
	</article>
	<article class="product_pod">
		<h3><a href="catalogue/tipping-the-velvet_999/index.html" title="Tipping the Velvet">Tipping the Velvet</a></h3>
		<p class="price_color">£53.74</p>
	</article>
	<article class="product_pod">
		<h3><a href="catalogue/soumission_998/index.html" title="Soumission">Soumission</a></h3>
		<p class="price_color">£50.10</p>
	</article>
	</body></html>`

	p := New(bookSelectors())
	books := p.ExtractBooks(mustParse(t, html), "https://books.toscrape.com/")

	if len(books) != 3 {
		t.Fatalf("ExtractBooks() returned %d books, want 3", len(books))
	}

	wantTitles := []string{"A Light in the Attic", "Tipping the Velvet", "Soumission"}
	wantPrices := []string{"£51.77", "£53.74", "£50.10"}
	for i, b := range books {
		if b.Title != wantTitles[i] {
			t.Errorf("books[%d].Title = %q, want %q", i, b.Title, wantTitles[i])
		}
		if b.Price != wantPrices[i] {
			t.Errorf("books[%d].Price = %q, want %q", i, b.Price, wantPrices[i])
		}
	}

	wantURL := "https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html"
	if books[0].URL != wantURL {
		t.Errorf("books[0].URL = %q, want %q", books[0].URL, wantURL)
	}
}

func TestExtractBooks_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantPrice string
	}{
		{
			name: "missing title attribute",
			html: `<article class="product_pod">
				<h3><a href="x.html">short name</a></h3>
				<p class="price_color">£10.00</p>
			</article>`,
			wantTitle: "",
			wantPrice: "£10.00",
		},
		{
			name: "missing price element",
			html: `<article class="product_pod">
				<h3><a href="x.html" title="No Price Here">x</a></h3>
			</article>`,
			wantTitle: "No Price Here",
			wantPrice: "",
		},
		{
			name:      "missing both",
			html:      `<article class="product_pod"><h3></h3></article>`,
			wantTitle: "",
			wantPrice: "",
		},
	}

	p := New(bookSelectors())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := p.ExtractBooks(mustParse(t, tt.html), "https://example.com/")
			if len(books) != 1 {
				t.Fatalf("ExtractBooks() returned %d books, want 1", len(books))
			}
			if books[0].Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", books[0].Title, tt.wantTitle)
			}
			if books[0].Price != tt.wantPrice {
				t.Errorf("Price = %q, want %q", books[0].Price, tt.wantPrice)
			}
		})
	}
}

func TestExtractBooks_NoContainers(t *testing.T) {
	p := New(bookSelectors())
	books := p.ExtractBooks(mustParse(t, `<html><body><p>nothing here</p></body></html>`), "https://example.com/")
	if len(books) != 0 {
		t.Errorf("ExtractBooks() returned %d books, want 0", len(books))
	}
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		pageURL string
		want    string
	}{
		{
			name:    "relative next link from site root",
			html:    `<ul class="pager"><li class="next"><a href="catalogue/page-2.html">next</a></li></ul>`,
			pageURL: "https://books.toscrape.com/index.html",
			want:    "https://books.toscrape.com/catalogue/page-2.html",
		},
		{
			name:    "relative next link from nested page",
			html:    `<ul class="pager"><li class="next"><a href="page-3.html">next</a></li></ul>`,
			pageURL: "https://books.toscrape.com/catalogue/page-2.html",
			want:    "https://books.toscrape.com/catalogue/page-3.html",
		},
		{
			name:    "absolute next link",
			html:    `<li class="next"><a href="https://other.example.com/p2">next</a></li>`,
			pageURL: "https://books.toscrape.com/",
			want:    "https://other.example.com/p2",
		},
		{
			name:    "no next element",
			html:    `<ul class="pager"><li class="previous"><a href="page-1.html">previous</a></li></ul>`,
			pageURL: "https://books.toscrape.com/catalogue/page-2.html",
			want:    "",
		},
		{
			name:    "next element missing href",
			html:    `<li class="next"><a>next</a></li>`,
			pageURL: "https://books.toscrape.com/",
			want:    "",
		},
		{
			name:    "next element with empty href",
			html:    `<li class="next"><a href="  ">next</a></li>`,
			pageURL: "https://books.toscrape.com/",
			want:    "",
		},
	}

	p := New(bookSelectors())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.NextPageURL(mustParse(t, tt.html), tt.pageURL)
			if err != nil {
				t.Fatalf("NextPageURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextPageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextPageURL_BadBaseURL(t *testing.T) {
	p := New(bookSelectors())
	doc := mustParse(t, `<li class="next"><a href="page-2.html">next</a></li>`)
	if _, err := p.NextPageURL(doc, "://not a url"); err == nil {
		t.Error("NextPageURL() expected error for unparseable page URL, got nil")
	}
}
