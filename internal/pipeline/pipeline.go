// Package pipeline sequences one crawl: fetch quotes, fetch authors,
// normalize both collections, persist the batch. It is the single entry
// point external schedulers and UIs invoke.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/clean"
	"github.com/quotesdb/quotes-crawler/internal/quotes"
	"github.com/quotesdb/quotes-crawler/internal/repository"
	"github.com/quotesdb/quotes-crawler/internal/scraper"
)

// State names where a run currently is. Failed is reachable from any state.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateNormalizing State = "normalizing"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Source produces raw quote and author records. *scraper.Scraper is the
// production implementation; tests substitute fakes.
type Source interface {
	ScrapeQuotes(ctx context.Context) ([]quotes.Quote, error)
	ScrapeAuthors(ctx context.Context, qs []quotes.Quote) (map[string]quotes.Author, error)
}

// Store is the slice of the repository the pipeline drives.
// *repository.SQLStore is the production implementation.
type Store interface {
	InsertData(ctx context.Context, qs []quotes.Quote, authors map[string]quotes.Author) error
}

// Pipeline drives one fetch -> normalize -> persist cycle at a time. It is
// not safe for concurrent Run calls; the scheduler never overlaps runs.
type Pipeline struct {
	source Source
	store  Store
	logger *zap.Logger
	state  State
}

// New builds a Pipeline in the Idle state.
func New(source Source, store Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		source: source,
		store:  store,
		logger: logger,
		state:  StateIdle,
	}
}

// State reports the state of the current or most recent run.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes one full crawl cycle. On any component error it transitions
// to Failed, logs the error classification, and returns without retrying;
// re-invocation cadence belongs to the caller.
func (p *Pipeline) Run(ctx context.Context) error {
	p.transition(StateIdle)

	p.transition(StateFetching)
	rawQuotes, err := p.source.ScrapeQuotes(ctx)
	if err != nil {
		return p.fail(fmt.Errorf("scrape quotes: %w", err))
	}
	rawAuthors, err := p.source.ScrapeAuthors(ctx, rawQuotes)
	if err != nil {
		return p.fail(fmt.Errorf("scrape authors: %w", err))
	}

	p.transition(StateNormalizing)
	cleanQuotes, cleanAuthors := clean.Data(rawQuotes, rawAuthors)

	p.transition(StatePersisting)
	if err := p.store.InsertData(ctx, cleanQuotes, cleanAuthors); err != nil {
		return p.fail(fmt.Errorf("persist batch: %w", err))
	}

	p.transition(StateDone)
	p.logger.Info("Crawl cycle completed",
		zap.Int("quotes", len(cleanQuotes)),
		zap.Int("authors", len(cleanAuthors)),
	)
	return nil
}

func (p *Pipeline) transition(next State) {
	p.logger.Debug("Pipeline state change",
		zap.String("from", string(p.state)),
		zap.String("to", string(next)),
	)
	p.state = next
}

func (p *Pipeline) fail(err error) error {
	p.transition(StateFailed)
	p.logger.Error("Crawl cycle failed",
		zap.String("classification", classify(err)),
		zap.Error(err),
	)
	return err
}

// classify buckets an error into the taxonomy operators alert on.
func classify(err error) string {
	switch {
	case errors.Is(err, scraper.ErrTransport):
		return "transport"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, repository.ErrAuthorNotFound), errors.Is(err, repository.ErrTagNotFound):
		return "persistence"
	default:
		return "internal"
	}
}
