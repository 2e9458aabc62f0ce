package parser

import (
	"regexp"
	"strings"

	"books-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// DetailParser extracts the extra fields a book's own product page
// carries beyond what the listing shows.
type DetailParser struct{}

// NewDetailParser creates a new DetailParser instance.
func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

// ratingWords maps the rating class word to its star count.
var ratingWords = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// Enrich fills book's detail fields from a parsed product page.
// Fields whose source elements are absent are left untouched.
func (dp *DetailParser) Enrich(doc *goquery.Document, book *models.Book) {
	if rating := dp.extractRating(doc); rating > 0 {
		book.Rating = rating
	}

	if avail := normalizeWhitespace(doc.Find(".instock.availability").First().Text()); avail != "" {
		book.Availability = avail
	}

	// The description paragraph is the sibling of the sub-header div,
	// not nested inside it.
	if desc := strings.TrimSpace(doc.Find("#product_description + p").First().Text()); desc != "" {
		book.Description = desc
	}

	if upc := dp.extractProductField(doc, "UPC"); upc != "" {
		book.UPC = upc
	}

	if category := dp.extractCategory(doc); category != "" {
		book.Category = category
	}
}

// extractRating reads the star rating from the rating element's class
// list, e.g. class="star-rating Three".
func (dp *DetailParser) extractRating(doc *goquery.Document) int {
	class := doc.Find("p.star-rating").First().AttrOr("class", "")
	for _, word := range strings.Fields(class) {
		if stars, ok := ratingWords[word]; ok {
			return stars
		}
	}
	return 0
}

// extractProductField reads a value from the product information table
// by its row header.
func (dp *DetailParser) extractProductField(doc *goquery.Document, header string) string {
	var value string
	doc.Find("table.table-striped tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if strings.TrimSpace(row.Find("th").First().Text()) == header {
			value = strings.TrimSpace(row.Find("td").First().Text())
			return false
		}
		return true
	})
	return value
}

// extractCategory reads the category from the breadcrumb trail
// (Home > Books > Category > Title).
func (dp *DetailParser) extractCategory(doc *goquery.Document) string {
	crumbs := doc.Find("ul.breadcrumb li a")
	if crumbs.Length() < 3 {
		return ""
	}
	return strings.TrimSpace(crumbs.Eq(2).Text())
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeWhitespace collapses runs of whitespace, including
// non-breaking spaces, into single spaces.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
