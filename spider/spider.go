// Package spider holds the crawl logic: named spider definitions and
// the loop that walks a site's next-link chain.
package spider

import (
	"fmt"
	"sort"

	"books-scraper/parser"
)

// Spider bundles one site's seed URL with the selectors for its item
// containers, fields and next-link.
type Spider struct {
	Name      string
	SeedURL   string
	Selectors parser.Selectors
}

// Books is the built-in spider for books.toscrape.com.
func Books() Spider {
	return Spider{
		Name:    "books",
		SeedURL: "https://books.toscrape.com/",
		Selectors: parser.Selectors{
			Item:      "article.product_pod",
			Title:     "h3 > a",
			TitleAttr: "title",
			Price:     ".price_color",
			NextLink:  "li.next a",
			NextAttr:  "href",
		},
	}
}

var registry = map[string]Spider{
	"books": Books(),
}

// Lookup returns the spider registered under name.
func Lookup(name string) (Spider, error) {
	sp, ok := registry[name]
	if !ok {
		return Spider{}, fmt.Errorf("unknown spider %q (known: %v)", name, Names())
	}
	return sp, nil
}

// Names lists the registered spider names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
