package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotesdb/quotes-crawler/internal/quotes"
	"github.com/quotesdb/quotes-crawler/internal/repository"
)

func newStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	require.NoError(t, store.CreateTables(context.Background()))
	return store
}

func sampleBatch() ([]quotes.Quote, map[string]quotes.Author) {
	qs := []quotes.Quote{
		{
			Text:   "The world as we have created it is a process of our thinking.",
			Author: "Albert Einstein",
			Tags:   []string{"change", "deep-thoughts"},
		},
		{
			Text:   "Try not to become a man of success.",
			Author: "Albert Einstein",
			Tags:   []string{"success"},
		},
		{
			Text:   "It is our choices that show what we truly are.",
			Author: "J.K. Rowling",
			Tags:   []string{"choices"},
		},
	}
	authors := map[string]quotes.Author{
		"Albert Einstein": {
			Name:      "Albert Einstein",
			About:     "Born March 14, 1879 in Ulm, Germany. Theoretical physicist.",
			AboutLink: "http://example.com/author/Albert-Einstein",
		},
		"J.K. Rowling": {
			Name:      "J.K. Rowling",
			About:     "Born July 31, 1965 in Yate, England. British author.",
			AboutLink: "http://example.com/author/J-K-Rowling",
		},
	}
	return qs, authors
}

func TestOpenRejectsAmbiguousConfig(t *testing.T) {
	t.Parallel()

	_, err := repository.Open(context.Background(), repository.Config{}, nil)
	assert.Error(t, err)

	_, err = repository.Open(context.Background(), repository.Config{DSN: "x", Path: "y"}, nil)
	assert.Error(t, err)
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	require.NoError(t, store.CreateTables(context.Background()))
	require.NoError(t, store.CreateTables(context.Background()))
}

func TestUpsertAuthorKeepsLatestFields(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()

	first := quotes.Author{Name: "Albert Einstein", About: "first draft", AboutLink: "http://a"}
	require.NoError(t, store.UpsertAuthor(ctx, first))
	firstID, err := store.LookupAuthorID(ctx, "Albert Einstein")
	require.NoError(t, err)

	second := quotes.Author{Name: "Albert Einstein", About: "updated biography", AboutLink: "http://b"}
	require.NoError(t, store.UpsertAuthor(ctx, second))

	secondID, err := store.LookupAuthorID(ctx, "Albert Einstein")
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	rows, err := store.Authors(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "updated biography", rows[0].About)
	assert.Equal(t, "http://b", rows[0].AboutLink)
}

func TestUpsertQuoteRequiresAuthor(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	_, err := store.UpsertQuote(context.Background(), quotes.Quote{Text: "orphan", Author: "Nobody"})
	assert.ErrorIs(t, err, repository.ErrAuthorNotFound)
}

func TestUpsertQuoteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAuthor(ctx, quotes.Author{Name: "Albert Einstein"}))

	q := quotes.Quote{Text: "Once.", Author: "Albert Einstein"}
	firstID, err := store.UpsertQuote(ctx, q)
	require.NoError(t, err)

	secondID, err := store.UpsertQuote(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	rows, err := store.Quotes(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestQuoteTextIsUniquePerAuthorNotGlobally(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAuthor(ctx, quotes.Author{Name: "First Author"}))
	require.NoError(t, store.UpsertAuthor(ctx, quotes.Author{Name: "Second Author"}))

	idA, err := store.UpsertQuote(ctx, quotes.Quote{Text: "Same words.", Author: "First Author"})
	require.NoError(t, err)
	idB, err := store.UpsertQuote(ctx, quotes.Quote{Text: "Same words.", Author: "Second Author"})
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	rows, err := store.Quotes(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestUpsertTagAndLookups(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()

	id, err := store.UpsertTag(ctx, "life")
	require.NoError(t, err)

	again, err := store.UpsertTag(ctx, "life")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	looked, err := store.LookupTagID(ctx, "life")
	require.NoError(t, err)
	assert.Equal(t, id, looked)

	_, err = store.LookupTagID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrTagNotFound)

	_, err = store.LookupAuthorID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrAuthorNotFound)
}

func TestLinkQuoteTagIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertAuthor(ctx, quotes.Author{Name: "Albert Einstein"}))
	quoteID, err := store.UpsertQuote(ctx, quotes.Quote{Text: "Tagged.", Author: "Albert Einstein"})
	require.NoError(t, err)
	tagID, err := store.UpsertTag(ctx, "life")
	require.NoError(t, err)

	require.NoError(t, store.LinkQuoteTag(ctx, quoteID, tagID))
	require.NoError(t, store.LinkQuoteTag(ctx, quoteID, tagID))

	tags, err := store.TagsByQuote(ctx, quoteID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestInsertDataCountsAndIdempotence(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	qs, authors := sampleBatch()

	require.NoError(t, store.InsertData(ctx, qs, authors))
	assertBatchCounts(t, store, 2, 3, 4, 4)

	// Replaying the identical batch must not change any row count.
	require.NoError(t, store.InsertData(ctx, qs, authors))
	assertBatchCounts(t, store, 2, 3, 4, 4)
}

func assertBatchCounts(t *testing.T, store *repository.SQLStore, wantAuthors, wantQuotes, wantTags, wantLinks int) {
	t.Helper()
	ctx := context.Background()

	authorRows, err := store.Authors(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, authorRows, wantAuthors)

	quoteRows, err := store.Quotes(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, quoteRows, wantQuotes)

	tagRows, err := store.TopTags(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, tagRows, wantTags)

	links := 0
	for _, q := range quoteRows {
		tags, err := store.TagsByQuote(ctx, q.ID)
		require.NoError(t, err)
		links += len(tags)
	}
	assert.Equal(t, wantLinks, links)
}

func TestInsertDataRollsBackOnMissingAuthor(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	qs, authors := sampleBatch()
	qs = append(qs, quotes.Quote{Text: "Orphaned.", Author: "Unknown Author"})

	err := store.InsertData(ctx, qs, authors)
	require.ErrorIs(t, err, repository.ErrAuthorNotFound)

	// The whole batch rolled back: even the valid authors are gone.
	assertBatchCounts(t, store, 0, 0, 0, 0)
}

func TestReadPaths(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	ctx := context.Background()
	qs, authors := sampleBatch()
	require.NoError(t, store.InsertData(ctx, qs, authors))

	einsteinID, err := store.LookupAuthorID(ctx, "Albert Einstein")
	require.NoError(t, err)

	byAuthor, err := store.QuotesByAuthor(ctx, einsteinID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	byTag, err := store.QuotesByTag(ctx, "choices")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "It is our choices that show what we truly are.", byTag[0].Text)

	quote, err := store.QuoteByID(ctx, byTag[0].ID)
	require.NoError(t, err)
	assert.Equal(t, byTag[0], quote)

	_, err = store.QuoteByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrQuoteNotFound)

	author, err := store.AuthorByID(ctx, einsteinID)
	require.NoError(t, err)
	assert.Equal(t, "Albert Einstein", author.Name)

	top, err := store.TopAuthors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Albert Einstein", top[0].Name)
	assert.Equal(t, int64(2), top[0].QuoteCount)

	recent, err := store.TopQuotes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Greater(t, recent[0].ID, recent[1].ID)

	topTags, err := store.TopTags(ctx, 10)
	require.NoError(t, err)
	require.Len(t, topTags, 4)
	assert.Equal(t, int64(1), topTags[0].UsageCount)
}
