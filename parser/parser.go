package parser

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"books-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// Selectors locates the pieces of a listing page.
type Selectors struct {
	Item      string // repeated container wrapping one catalog entry
	Title     string // link element inside the container
	TitleAttr string // attribute of the title link holding the title text; "" means use the link text
	Price     string // element whose text content is the price
	NextLink  string // navigation element pointing at the next listing page
	NextAttr  string // attribute of the next link holding the target URL
}

// Parser extracts book records from listing pages.
type Parser struct {
	sel Selectors
}

// New creates a Parser bound to a selector set.
func New(sel Selectors) *Parser {
	return &Parser{sel: sel}
}

// ParseHTML parses raw HTML into a queryable document.
func (p *Parser) ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractBooks returns one Book per item container, in document order.
// A container missing its title or price yields an empty value for
// that field rather than an error; the record is still emitted.
// pageURL is used to resolve relative book links.
func (p *Parser) ExtractBooks(doc *goquery.Document, pageURL string) []models.Book {
	var books []models.Book

	doc.Find(p.sel.Item).Each(func(i int, s *goquery.Selection) {
		link := s.Find(p.sel.Title).First()

		var title string
		if p.sel.TitleAttr != "" {
			title = link.AttrOr(p.sel.TitleAttr, "")
		} else {
			title = strings.TrimSpace(link.Text())
		}

		price := strings.TrimSpace(s.Find(p.sel.Price).First().Text())

		books = append(books, models.Book{
			Title: title,
			Price: price,
			URL:   resolveURL(pageURL, link.AttrOr("href", "")),
		})
	})

	return books
}

// NextPageURL inspects the next-link navigation element and returns
// its target resolved to absolute form against pageURL. It returns ""
// when the document has no next link. A next link that is present but
// missing its target attribute terminates pagination the same way,
// with a log line since that can silently lose the rest of the chain.
func (p *Parser) NextPageURL(doc *goquery.Document, pageURL string) (string, error) {
	nav := doc.Find(p.sel.NextLink).First()
	if nav.Length() == 0 {
		return "", nil
	}

	href, ok := nav.Attr(p.sel.NextAttr)
	if !ok || strings.TrimSpace(href) == "" {
		log.Printf("Warning: next link on %s has no %q attribute, stopping pagination\n", pageURL, p.sel.NextAttr)
		return "", nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse page URL %s: %w", pageURL, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		log.Printf("Warning: next link on %s has malformed target %q, stopping pagination\n", pageURL, href)
		return "", nil
	}

	return base.ResolveReference(ref).String(), nil
}

// resolveURL resolves href against base, returning href unchanged when
// either side does not parse.
func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(r).String()
}
