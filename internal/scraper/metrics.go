package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalPages tracks the number of list pages fetched during crawls.
	TotalPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_pages_total",
		Help: "The total number of quote list pages fetched.",
	})
	// TotalQuotes tracks the number of quote entries successfully parsed.
	TotalQuotes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_quotes_total",
		Help: "The total number of quote entries parsed from list pages.",
	})
	// TotalAuthorFetches tracks the number of author detail pages fetched.
	TotalAuthorFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_author_fetches_total",
		Help: "The total number of author detail pages fetched.",
	})
	// TotalRequestErrors tracks the number of requests that resulted in a transport error.
	TotalRequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_request_errors_total",
		Help: "The total number of failed HTTP requests.",
	})
	// TotalDroppedRecords tracks quote entries discarded for missing text or author.
	TotalDroppedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_dropped_records_total",
		Help: "The total number of quote entries dropped as unparseable.",
	})
)
