// Package quotes defines the in-memory records produced by the scraper and
// consumed by the normalizer and the repository. Numeric identity is minted
// only by the repository; before persistence a quote references its author
// by display name and a tag is nothing but a label.
package quotes

// Quote is one scraped quote entry.
type Quote struct {
	Text            string
	Author          string
	Tags            []string
	AuthorAboutLink string
}

// Author is the metadata scraped from an author detail page. Name is the
// natural key: re-scraping the same author updates About/AboutLink in place.
type Author struct {
	Name      string
	About     string
	AboutLink string
}
