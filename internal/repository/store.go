package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/quotes"

	// Database drivers for the two supported engines.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects the backing engine by which connection parameter is
// supplied: a DSN connects to the client-server engine, a Path opens the
// embedded engine (":memory:" for tests). Exactly one must be set.
type Config struct {
	DSN  string
	Path string
}

// SQLStore implements Store over sqlx for both engines.
type SQLStore struct {
	db     *sqlx.DB
	engine Engine
	logger *zap.Logger
}

// Open connects to the engine selected by cfg and pings it.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*SQLStore, error) {
	switch {
	case cfg.DSN != "" && cfg.Path != "":
		return nil, fmt.Errorf("database config: dsn and path are mutually exclusive")
	case cfg.DSN != "":
		db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewWithDB(db, EnginePostgres, logger), nil
	case cfg.Path != "":
		db, err := sqlx.ConnectContext(ctx, "sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.Path, err)
		}
		// A single connection keeps an in-memory database coherent across
		// statements and keeps the embedded engine a single writer.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
		return NewWithDB(db, EngineSQLite, logger), nil
	default:
		return nil, fmt.Errorf("database config: either dsn or path must be set")
	}
}

// NewWithDB wraps an existing connection. Used by Open and by tests that
// supply a mocked or pre-opened database.
func NewWithDB(db *sqlx.DB, engine Engine, logger *zap.Logger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{db: db, engine: engine, logger: logger}
}

// Engine reports which backend this store talks to.
func (s *SQLStore) Engine() Engine {
	return s.engine
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateTables applies the schema DDL. Safe to call repeatedly.
func (s *SQLStore) CreateTables(ctx context.Context) error {
	for _, stmt := range s.engine.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	s.logger.Debug("Schema ensured", zap.String("engine", string(s.engine)))
	return nil
}

// UpsertAuthor inserts or updates a single author outside a batch.
func (s *SQLStore) UpsertAuthor(ctx context.Context, author quotes.Author) error {
	return s.upsertAuthor(ctx, s.db, author)
}

// UpsertQuote inserts or resolves a single quote outside a batch.
func (s *SQLStore) UpsertQuote(ctx context.Context, quote quotes.Quote) (int64, error) {
	return s.upsertQuote(ctx, s.db, quote)
}

// UpsertTag inserts the tag if absent and returns its id.
func (s *SQLStore) UpsertTag(ctx context.Context, name string) (int64, error) {
	return s.upsertTag(ctx, s.db, name)
}

// LinkQuoteTag records that a quote carries a tag; replays are no-ops.
func (s *SQLStore) LinkQuoteTag(ctx context.Context, quoteID, tagID int64) error {
	return s.linkQuoteTag(ctx, s.db, quoteID, tagID)
}

// LookupAuthorID resolves an author name to its id.
func (s *SQLStore) LookupAuthorID(ctx context.Context, name string) (int64, error) {
	return s.lookupAuthorID(ctx, s.db, name)
}

// LookupTagID resolves a tag name to its id.
func (s *SQLStore) LookupTagID(ctx context.Context, name string) (int64, error) {
	return s.lookupTagID(ctx, s.db, name)
}

// InsertData persists one scraped batch atomically. Authors go first so
// every quote can resolve its author_id; each quote then gets its tag rows
// and junction links. Any failure rolls the whole batch back.
func (s *SQLStore) InsertData(ctx context.Context, qs []quotes.Quote, authors map[string]quotes.Author) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, author := range authors {
		if err := s.upsertAuthor(ctx, tx, author); err != nil {
			return err
		}
	}

	for _, quote := range qs {
		quoteID, err := s.upsertQuote(ctx, tx, quote)
		if err != nil {
			return err
		}
		for _, tag := range quote.Tags {
			tagID, err := s.upsertTag(ctx, tx, tag)
			if err != nil {
				return err
			}
			if err := s.linkQuoteTag(ctx, tx, quoteID, tagID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	s.logger.Info("Batch persisted",
		zap.Int("quotes", len(qs)),
		zap.Int("authors", len(authors)),
	)
	return nil
}

func (s *SQLStore) upsertAuthor(ctx context.Context, q sqlx.ExtContext, author quotes.Author) error {
	query := s.engine.Rebind(s.engine.upsertAuthorQuery())
	if _, err := q.ExecContext(ctx, query, author.Name, author.About, author.AboutLink); err != nil {
		return fmt.Errorf("upsert author %q: %w", author.Name, err)
	}
	return nil
}

func (s *SQLStore) upsertQuote(ctx context.Context, q sqlx.ExtContext, quote quotes.Quote) (int64, error) {
	authorID, err := s.lookupAuthorID(ctx, q, quote.Author)
	if err != nil {
		return 0, err
	}

	var existing int64
	query := s.engine.Rebind(`SELECT id FROM quotes WHERE text = ? AND author_id = ?`)
	err = sqlx.GetContext(ctx, q, &existing, query, quote.Text, authorID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("lookup quote: %w", err)
	}

	return s.insertReturningID(ctx, q,
		`INSERT INTO quotes (text, author_id) VALUES (?, ?)`,
		quote.Text, authorID,
	)
}

func (s *SQLStore) upsertTag(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	query := s.engine.Rebind(s.engine.insertTagQuery())
	if _, err := q.ExecContext(ctx, query, name); err != nil {
		return 0, fmt.Errorf("insert tag %q: %w", name, err)
	}
	return s.lookupTagID(ctx, q, name)
}

func (s *SQLStore) linkQuoteTag(ctx context.Context, q sqlx.ExtContext, quoteID, tagID int64) error {
	query := s.engine.Rebind(s.engine.linkQuoteTagQuery())
	if _, err := q.ExecContext(ctx, query, quoteID, tagID); err != nil {
		return fmt.Errorf("link quote %d to tag %d: %w", quoteID, tagID, err)
	}
	return nil
}

func (s *SQLStore) lookupAuthorID(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	var id int64
	query := s.engine.Rebind(`SELECT id FROM authors WHERE name = ?`)
	err := sqlx.GetContext(ctx, q, &id, query, name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("%w: %q", ErrAuthorNotFound, name)
	case err != nil:
		return 0, fmt.Errorf("lookup author %q: %w", name, err)
	}
	return id, nil
}

func (s *SQLStore) lookupTagID(ctx context.Context, q sqlx.ExtContext, name string) (int64, error) {
	var id int64
	query := s.engine.Rebind(`SELECT id FROM tags WHERE name = ?`)
	err := sqlx.GetContext(ctx, q, &id, query, name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	case err != nil:
		return 0, fmt.Errorf("lookup tag %q: %w", name, err)
	}
	return id, nil
}

// insertReturningID executes an insert and retrieves the generated id the
// way the engine supports: RETURNING for postgres, LastInsertId for sqlite.
func (s *SQLStore) insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if s.engine.returningID() {
		var id int64
		bound := s.engine.Rebind(query + ` RETURNING id`)
		if err := sqlx.GetContext(ctx, q, &id, bound, args...); err != nil {
			return 0, fmt.Errorf("insert returning id: %w", err)
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, s.engine.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
