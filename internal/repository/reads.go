package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Read paths for the browse front end: lookups by id, by author, by tag,
// and the simple top-N aggregates. All of them run against the same schema
// on either engine.

// QuoteByID returns a single quote, or ErrQuoteNotFound.
func (s *SQLStore) QuoteByID(ctx context.Context, id int64) (QuoteRow, error) {
	var row QuoteRow
	query := s.engine.Rebind(`SELECT id, text, author_id FROM quotes WHERE id = ?`)
	err := sqlx.GetContext(ctx, s.db, &row, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return QuoteRow{}, fmt.Errorf("%w: id %d", ErrQuoteNotFound, id)
	case err != nil:
		return QuoteRow{}, fmt.Errorf("quote by id: %w", err)
	}
	return row, nil
}

// Quotes returns a page of quotes in insertion order.
func (s *SQLStore) Quotes(ctx context.Context, limit, offset int) ([]QuoteRow, error) {
	rows := []QuoteRow{}
	query := s.engine.Rebind(`SELECT id, text, author_id FROM quotes ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return rows, nil
}

// AuthorByID returns a single author, or ErrAuthorNotFound.
func (s *SQLStore) AuthorByID(ctx context.Context, id int64) (AuthorRow, error) {
	var row AuthorRow
	query := s.engine.Rebind(`SELECT id, name, about, about_link FROM authors WHERE id = ?`)
	err := sqlx.GetContext(ctx, s.db, &row, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return AuthorRow{}, fmt.Errorf("%w: id %d", ErrAuthorNotFound, id)
	case err != nil:
		return AuthorRow{}, fmt.Errorf("author by id: %w", err)
	}
	return row, nil
}

// Authors returns a page of authors ordered by name.
func (s *SQLStore) Authors(ctx context.Context, limit, offset int) ([]AuthorRow, error) {
	rows := []AuthorRow{}
	query := s.engine.Rebind(`SELECT id, name, about, about_link FROM authors ORDER BY name LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return rows, nil
}

// QuotesByAuthor returns every quote attributed to an author.
func (s *SQLStore) QuotesByAuthor(ctx context.Context, authorID int64) ([]QuoteRow, error) {
	rows := []QuoteRow{}
	query := s.engine.Rebind(`SELECT id, text, author_id FROM quotes WHERE author_id = ? ORDER BY id`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, authorID); err != nil {
		return nil, fmt.Errorf("quotes by author: %w", err)
	}
	return rows, nil
}

// QuotesByTag returns every quote carrying the named tag.
func (s *SQLStore) QuotesByTag(ctx context.Context, tagName string) ([]QuoteRow, error) {
	rows := []QuoteRow{}
	query := s.engine.Rebind(`
		SELECT q.id, q.text, q.author_id FROM quotes q
		JOIN quote_tags qt ON q.id = qt.quote_id
		JOIN tags t ON t.id = qt.tag_id
		WHERE t.name = ?
		ORDER BY q.id`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, tagName); err != nil {
		return nil, fmt.Errorf("quotes by tag: %w", err)
	}
	return rows, nil
}

// TagsByQuote returns the tags attached to a quote.
func (s *SQLStore) TagsByQuote(ctx context.Context, quoteID int64) ([]TagRow, error) {
	rows := []TagRow{}
	query := s.engine.Rebind(`
		SELECT t.id, t.name FROM tags t
		JOIN quote_tags qt ON t.id = qt.tag_id
		WHERE qt.quote_id = ?
		ORDER BY t.name`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, quoteID); err != nil {
		return nil, fmt.Errorf("tags by quote: %w", err)
	}
	return rows, nil
}

// TopQuotes returns the n most recently inserted quotes.
func (s *SQLStore) TopQuotes(ctx context.Context, n int) ([]QuoteRow, error) {
	rows := []QuoteRow{}
	query := s.engine.Rebind(`SELECT id, text, author_id FROM quotes ORDER BY id DESC LIMIT ?`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, n); err != nil {
		return nil, fmt.Errorf("top quotes: %w", err)
	}
	return rows, nil
}

// TopAuthors returns the n authors with the most quotes.
func (s *SQLStore) TopAuthors(ctx context.Context, n int) ([]AuthorWithCount, error) {
	rows := []AuthorWithCount{}
	query := s.engine.Rebind(`
		SELECT a.id, a.name, a.about, a.about_link, COUNT(q.id) AS quote_count
		FROM authors a
		LEFT JOIN quotes q ON a.id = q.author_id
		GROUP BY a.id, a.name, a.about, a.about_link
		ORDER BY quote_count DESC, a.id
		LIMIT ?`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, n); err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	return rows, nil
}

// TopTags returns the n most-used tags.
func (s *SQLStore) TopTags(ctx context.Context, n int) ([]TagWithCount, error) {
	rows := []TagWithCount{}
	query := s.engine.Rebind(`
		SELECT t.id, t.name, COUNT(qt.quote_id) AS usage_count
		FROM tags t
		LEFT JOIN quote_tags qt ON t.id = qt.tag_id
		GROUP BY t.id, t.name
		ORDER BY usage_count DESC, t.id
		LIMIT ?`)
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, n); err != nil {
		return nil, fmt.Errorf("top tags: %w", err)
	}
	return rows, nil
}
