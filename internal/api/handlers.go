package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultTopN     = 5
	maxTopN         = 50
)

func contextWithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, reqID)
}

// quoteDetail is the composite payload for a single quote: the row plus
// its tag set.
type quoteDetail struct {
	repository.QuoteRow
	Tags []repository.TagRow `json:"tags"`
}

func (s *Server) listQuotes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	rows, err := s.store.Quotes(r.Context(), limit, offset)
	if err != nil {
		s.internalError(w, "list quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "quote_id")
	if !ok {
		return
	}
	row, err := s.store.QuoteByID(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrQuoteNotFound):
		writeError(w, http.StatusNotFound, "quote not found")
		return
	case err != nil:
		s.internalError(w, "get quote", err)
		return
	}
	tags, err := s.store.TagsByQuote(r.Context(), id)
	if err != nil {
		s.internalError(w, "tags by quote", err)
		return
	}
	writeJSON(w, http.StatusOK, quoteDetail{QuoteRow: row, Tags: tags})
}

func (s *Server) listAuthors(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	rows, err := s.store.Authors(r.Context(), limit, offset)
	if err != nil {
		s.internalError(w, "list authors", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "author_id")
	if !ok {
		return
	}
	row, err := s.store.AuthorByID(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrAuthorNotFound):
		writeError(w, http.StatusNotFound, "author not found")
		return
	case err != nil:
		s.internalError(w, "get author", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) getAuthorQuotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "author_id")
	if !ok {
		return
	}
	if _, err := s.store.AuthorByID(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			writeError(w, http.StatusNotFound, "author not found")
			return
		}
		s.internalError(w, "get author", err)
		return
	}
	rows, err := s.store.QuotesByAuthor(r.Context(), id)
	if err != nil {
		s.internalError(w, "quotes by author", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getTagQuotes(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}
	rows, err := s.store.QuotesByTag(r.Context(), tag)
	if err != nil {
		s.internalError(w, "quotes by tag", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) topQuotes(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.TopQuotes(r.Context(), topN(r))
	if err != nil {
		s.internalError(w, "top quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) topAuthors(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.TopAuthors(r.Context(), topN(r))
	if err != nil {
		s.internalError(w, "top authors", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) topTags(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.TopTags(r.Context(), topN(r))
	if err != nil {
		s.internalError(w, "top tags", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("Handler failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) (limit, offset int) {
	limit = queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset = queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func topN(r *http.Request) int {
	n := queryInt(r, "n", defaultTopN)
	if n < 1 || n > maxTopN {
		return defaultTopN
	}
	return n
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
