// Package clean normalizes scraped text, author names, tag sets, and URLs
// into the canonical forms the repository persists. Every function here is
// pure and total: no I/O, no shared state, and no failure mode.
package clean

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/quotesdb/quotes-crawler/internal/quotes"
)

// specialChars matches everything outside word characters, whitespace, and
// basic punctuation. Matched runes are stripped.
var specialChars = regexp.MustCompile(`[^\w\s.,!?"-]`)

// honorific matches a leading title from the fixed enumerated set,
// case-sensitive, followed by whitespace.
var honorific = regexp.MustCompile(`^(Mr\.|Mrs\.|Ms\.|Dr\.|Prof\.)\s+`)

// Text decodes HTML entities, collapses whitespace runs to a single space,
// strips special characters, and trims.
func Text(s string) string {
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")
	s = specialChars.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// AuthorName strips a leading honorific (Mr., Mrs., Ms., Dr., Prof.),
// title-cases each remaining word, then applies Text.
func AuthorName(name string) string {
	name = honorific.ReplaceAllString(name, "")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return Text(strings.Join(words, " "))
}

// Tags lower-cases and cleans each tag, then deduplicates. The result is a
// set: input order is not preserved (output is sorted for determinism).
func Tags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := Text(strings.ToLower(tag))
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	sort.Strings(out)
	return out
}

// URL trims surrounding whitespace and prefixes the string with http://
// when it carries no http(s) scheme.
func URL(u string) string {
	u = strings.TrimSpace(u)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return u
}

// Data returns cleaned copies of a scraped batch: quotes in input order and
// authors re-keyed by their cleaned name. The inputs are not mutated.
func Data(qs []quotes.Quote, authors map[string]quotes.Author) ([]quotes.Quote, map[string]quotes.Author) {
	cleanedQuotes := make([]quotes.Quote, 0, len(qs))
	for _, q := range qs {
		cleanedQuotes = append(cleanedQuotes, quotes.Quote{
			Text:            Text(q.Text),
			Author:          AuthorName(q.Author),
			Tags:            Tags(q.Tags),
			AuthorAboutLink: URL(q.AuthorAboutLink),
		})
	}

	cleanedAuthors := make(map[string]quotes.Author, len(authors))
	for _, a := range authors {
		name := AuthorName(a.Name)
		cleanedAuthors[name] = quotes.Author{
			Name:      name,
			About:     Text(a.About),
			AboutLink: URL(a.AboutLink),
		}
	}
	return cleanedQuotes, cleanedAuthors
}

// capitalize upper-cases the first rune and lower-cases the rest, the same
// per-word treatment the rest of the pipeline expects for display names.
func capitalize(w string) string {
	runes := []rune(w)
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
