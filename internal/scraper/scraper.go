// Package scraper implements the paginated quote crawl using the Colly library.
//
// A crawl is strictly sequential: list pages are fetched one at a time in
// page order, and author detail pages one author at a time in
// first-encountered order. Author deduplication lives in a cache local to a
// single ScrapeAuthors call, so no concurrency control is needed.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/quotes"
)

// ErrTransport marks network-level failures (DNS, connect, timeout). A
// transport error aborts the whole crawl; it is the retryable category the
// orchestrator surfaces to its caller.
var ErrTransport = errors.New("transport failure")

// Sentinels substituted when an author detail page is missing a field, or
// is unavailable altogether.
const (
	unknownSentinel       = "Unknown"
	noDescriptionSentinel = "No description available"
)

// Scraper fetches quote list pages and author detail pages from a single
// base site.
type Scraper struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Scraper. The configuration must already be validated.
func New(cfg Config, logger *zap.Logger) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scraper config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{cfg: cfg, logger: logger}, nil
}

// ScrapeQuotes walks {base}/page/{n}/ starting at page 1, incrementing the
// page number until the response is not a success status or a page carries
// zero quote entries. Entries missing text or author are dropped with a
// diagnostic. A transport error aborts the crawl.
func (s *Scraper) ScrapeQuotes(ctx context.Context) ([]quotes.Quote, error) {
	var all []quotes.Quote
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageURL := fmt.Sprintf("%s/page/%d/", s.cfg.BaseURL, page)
		entries, status, err := s.fetchQuotePage(pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		TotalPages.Inc()
		if status < 200 || status >= 300 {
			s.logger.Debug("Stopping pagination on non-success status",
				zap.Int("page", page),
				zap.Int("status_code", status),
			)
			break
		}
		if len(entries) == 0 {
			s.logger.Debug("Stopping pagination on empty page", zap.Int("page", page))
			break
		}
		TotalQuotes.Add(float64(len(entries)))
		all = append(all, entries...)
	}
	s.logger.Info("Scraped quotes", zap.Int("count", len(all)))
	return all, nil
}

// ScrapeAuthors fetches the author detail page for each distinct author
// name in qs, deduplicated through a cache scoped to this call so each
// author is fetched at most once per crawl. An unavailable detail page
// degrades that author to placeholder biography fields; a transport error
// aborts the crawl.
func (s *Scraper) ScrapeAuthors(ctx context.Context, qs []quotes.Quote) (map[string]quotes.Author, error) {
	authors := make(map[string]quotes.Author)
	for _, q := range qs {
		if _, ok := authors[q.Author]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		author, err := s.fetchAuthor(q)
		if err != nil {
			return nil, fmt.Errorf("fetch author %q: %w", q.Author, err)
		}
		authors[q.Author] = author
	}
	s.logger.Info("Scraped authors", zap.Int("count", len(authors)))
	return authors, nil
}

// newCollector builds a fresh synchronous collector for one request.
func (s *Scraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
	)
	c.IgnoreRobotsTxt = !s.cfg.RespectRobots
	c.SetRequestTimeout(s.cfg.RequestTimeout)
	return c
}

func (s *Scraper) fetchQuotePage(pageURL string) ([]quotes.Quote, int, error) {
	var (
		entries []quotes.Quote
		status  int
	)
	c := s.newCollector()
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})
	c.OnHTML("div.quote", func(e *colly.HTMLElement) {
		text := strings.TrimSpace(e.ChildText("span.text"))
		author := strings.TrimSpace(e.ChildText("small.author"))
		if text == "" || author == "" {
			TotalDroppedRecords.Inc()
			s.logger.Warn("Dropping quote entry with missing text or author",
				zap.String("url", e.Request.URL.String()),
			)
			return
		}
		var tags []string
		e.ForEach("a.tag", func(_ int, tag *colly.HTMLElement) {
			tags = append(tags, tag.Text)
		})
		entries = append(entries, quotes.Quote{
			Text:            text,
			Author:          author,
			Tags:            tags,
			AuthorAboutLink: e.Request.AbsoluteURL(e.ChildAttr("span a", "href")),
		})
	})

	err := c.Visit(pageURL)
	if err != nil && status == 0 {
		TotalRequestErrors.Inc()
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return entries, status, nil
}

func (s *Scraper) fetchAuthor(q quotes.Quote) (quotes.Author, error) {
	placeholder := quotes.Author{
		Name:      q.Author,
		About:     aboutText("", "", ""),
		AboutLink: q.AuthorAboutLink,
	}
	if q.AuthorAboutLink == "" {
		s.logger.Warn("Quote entry carries no author link; using placeholder biography",
			zap.String("author", q.Author),
		)
		return placeholder, nil
	}

	var (
		bornDate     string
		bornLocation string
		description  string
		status       int
	)
	c := s.newCollector()
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		bornDate = strings.TrimSpace(e.ChildText("span.author-born-date"))
		bornLocation = strings.TrimSpace(e.ChildText("span.author-born-location"))
		description = strings.TrimSpace(e.ChildText("div.author-description"))
	})

	err := c.Visit(q.AuthorAboutLink)
	TotalAuthorFetches.Inc()
	if err != nil && status == 0 {
		TotalRequestErrors.Inc()
		return quotes.Author{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if status < 200 || status >= 300 {
		s.logger.Warn("Author detail page unavailable; using placeholder biography",
			zap.String("author", q.Author),
			zap.Int("status_code", status),
		)
		return placeholder, nil
	}
	return quotes.Author{
		Name:      q.Author,
		About:     aboutText(bornDate, bornLocation, description),
		AboutLink: q.AuthorAboutLink,
	}, nil
}

// aboutText renders the fixed biography template, substituting sentinels
// for absent fields.
func aboutText(bornDate, bornLocation, description string) string {
	if bornDate == "" {
		bornDate = unknownSentinel
	}
	if bornLocation == "" {
		bornLocation = unknownSentinel
	}
	if description == "" {
		description = noDescriptionSentinel
	}
	return fmt.Sprintf("Born: %s in %s\n\n%s", bornDate, bornLocation, description)
}
