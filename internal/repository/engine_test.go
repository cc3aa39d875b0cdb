package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotesdb/quotes-crawler/internal/quotes"
	"github.com/quotesdb/quotes-crawler/internal/repository"
)

// The sqlite paths are covered end to end against a real in-memory
// database in store_test.go; these tests pin down the postgres dialect:
// $n placeholders, ON CONFLICT clauses, and RETURNING id retrieval.

func newPostgresMock(t *testing.T) (*repository.SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close()
	})
	db := sqlx.NewDb(mockDB, "sqlmock")
	return repository.NewWithDB(db, repository.EnginePostgres, nil), mock
}

func TestPostgresUpsertAuthorUsesOnConflictUpdate(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresMock(t)
	mock.ExpectExec(`(?s)INSERT INTO authors \(name, about, about_link\) VALUES \(\$1, \$2, \$3\).*ON CONFLICT \(name\) DO UPDATE SET about = EXCLUDED\.about, about_link = EXCLUDED\.about_link`).
		WithArgs("Albert Einstein", "bio", "http://a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpsertAuthor(context.Background(), quotes.Author{
		Name:      "Albert Einstein",
		About:     "bio",
		AboutLink: "http://a",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertQuoteUsesReturningID(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresMock(t)
	mock.ExpectQuery(`SELECT id FROM authors WHERE name = \$1`).
		WithArgs("Albert Einstein").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`SELECT id FROM quotes WHERE text = \$1 AND author_id = \$2`).
		WithArgs("Fresh.", int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO quotes \(text, author_id\) VALUES \(\$1, \$2\) RETURNING id`).
		WithArgs("Fresh.", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := store.UpsertQuote(context.Background(), quotes.Quote{Text: "Fresh.", Author: "Albert Einstein"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertQuoteReturnsExistingID(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresMock(t)
	mock.ExpectQuery(`SELECT id FROM authors WHERE name = \$1`).
		WithArgs("Albert Einstein").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`SELECT id FROM quotes WHERE text = \$1 AND author_id = \$2`).
		WithArgs("Seen before.", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(13)))

	id, err := store.UpsertQuote(context.Background(), quotes.Quote{Text: "Seen before.", Author: "Albert Einstein"})
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTagAndLinkUseOnConflictDoNothing(t *testing.T) {
	t.Parallel()

	store, mock := newPostgresMock(t)
	mock.ExpectExec(`INSERT INTO tags \(name\) VALUES \(\$1\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("life").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM tags WHERE name = \$1`).
		WithArgs("life").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	tagID, err := store.UpsertTag(context.Background(), "life")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tagID)

	mock.ExpectExec(`INSERT INTO quote_tags \(quote_id, tag_id\) VALUES \(\$1, \$2\) ON CONFLICT DO NOTHING`).
		WithArgs(int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.LinkQuoteTag(context.Background(), int64(42), int64(3)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineRebind(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"SELECT id FROM authors WHERE name = $1",
		repository.EnginePostgres.Rebind("SELECT id FROM authors WHERE name = ?"),
	)
	assert.Equal(t,
		"SELECT id FROM authors WHERE name = ?",
		repository.EngineSQLite.Rebind("SELECT id FROM authors WHERE name = ?"),
	)
}
