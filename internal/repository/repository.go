// Package repository owns the relational schema for quotes, authors, and
// tags, and performs the idempotent upserts the crawl pipeline relies on.
// By abstracting the store behind an interface, we decouple the pipeline
// from a specific database engine: the same behavior is guaranteed against
// the embedded SQLite engine and a client-server Postgres engine.
package repository

import (
	"context"
	"errors"

	"github.com/quotesdb/quotes-crawler/internal/quotes"
)

// Lookup failures are signals, not faults: callers branch on them with
// errors.Is and continue.
var (
	// ErrAuthorNotFound is returned when an author name resolves to no row.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrTagNotFound is returned when a tag name resolves to no row.
	ErrTagNotFound = errors.New("tag not found")
	// ErrQuoteNotFound is returned when a quote id resolves to no row.
	ErrQuoteNotFound = errors.New("quote not found")
)

// AuthorRow is a persisted author.
type AuthorRow struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	About     string `db:"about" json:"about"`
	AboutLink string `db:"about_link" json:"about_link"`
}

// QuoteRow is a persisted quote.
type QuoteRow struct {
	ID       int64  `db:"id" json:"id"`
	Text     string `db:"text" json:"text"`
	AuthorID int64  `db:"author_id" json:"author_id"`
}

// TagRow is a persisted tag.
type TagRow struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// AuthorWithCount pairs an author with the number of quotes attributed to it.
type AuthorWithCount struct {
	AuthorRow
	QuoteCount int64 `db:"quote_count" json:"quote_count"`
}

// TagWithCount pairs a tag with the number of quotes carrying it.
type TagWithCount struct {
	TagRow
	UsageCount int64 `db:"usage_count" json:"usage_count"`
}

// Writer is the mutation surface the pipeline drives. All operations are
// idempotent: replaying the same batch leaves the relational state unchanged.
type Writer interface {
	// CreateTables applies the schema DDL. Safe to call on an already
	// initialized database.
	CreateTables(ctx context.Context) error

	// UpsertAuthor inserts the author or, on name conflict, updates about
	// and about_link in place. Afterwards exactly one row exists for the
	// name, carrying the latest field values.
	UpsertAuthor(ctx context.Context, author quotes.Author) error

	// UpsertQuote resolves the author name to an id (ErrAuthorNotFound if
	// the author was never upserted), inserts the quote unless a row with
	// the same text and author already exists, and returns the quote id
	// whether newly inserted or pre-existing.
	UpsertQuote(ctx context.Context, quote quotes.Quote) (int64, error)

	// UpsertTag inserts the tag if absent and returns its id.
	UpsertTag(ctx context.Context, name string) (int64, error)

	// LinkQuoteTag inserts the (quote, tag) pair if absent; inserting an
	// existing pair is a no-op, not an error.
	LinkQuoteTag(ctx context.Context, quoteID, tagID int64) error

	// LookupAuthorID resolves an author name, or ErrAuthorNotFound.
	LookupAuthorID(ctx context.Context, name string) (int64, error)

	// LookupTagID resolves a tag name, or ErrTagNotFound.
	LookupTagID(ctx context.Context, name string) (int64, error)

	// InsertData persists one scraped batch atomically: all authors first,
	// then each quote with its tag links, in a single transaction. On any
	// failure mid-batch the transaction rolls back and no partial batch is
	// visible.
	InsertData(ctx context.Context, qs []quotes.Quote, authors map[string]quotes.Author) error
}

// Reader is the read-only surface consumed by the browse API.
type Reader interface {
	QuoteByID(ctx context.Context, id int64) (QuoteRow, error)
	Quotes(ctx context.Context, limit, offset int) ([]QuoteRow, error)
	AuthorByID(ctx context.Context, id int64) (AuthorRow, error)
	Authors(ctx context.Context, limit, offset int) ([]AuthorRow, error)
	QuotesByAuthor(ctx context.Context, authorID int64) ([]QuoteRow, error)
	QuotesByTag(ctx context.Context, tagName string) ([]QuoteRow, error)
	TagsByQuote(ctx context.Context, quoteID int64) ([]TagRow, error)
	TopQuotes(ctx context.Context, n int) ([]QuoteRow, error)
	TopAuthors(ctx context.Context, n int) ([]AuthorWithCount, error)
	TopTags(ctx context.Context, n int) ([]TagWithCount, error)
}

// Store is the full repository surface.
type Store interface {
	Writer
	Reader
	Close() error
}
