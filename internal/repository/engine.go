package repository

import (
	"github.com/jmoiron/sqlx"
)

// Engine tags which relational backend a store talks to. The tag selects
// the parameter-placeholder syntax, the conflict-resolution clause, and
// how freshly inserted ids are retrieved; every other behavior is shared.
type Engine string

const (
	// EngineSQLite is the embedded file/in-memory engine.
	EngineSQLite Engine = "sqlite"
	// EnginePostgres is the client-server engine.
	EnginePostgres Engine = "postgres"
)

// Rebind rewrites canonical ?-placeholder SQL into the engine's
// placeholder syntax.
func (e Engine) Rebind(query string) string {
	if e == EnginePostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return query
}

// returningID reports whether inserts retrieve their id via a RETURNING
// clause rather than the driver's LastInsertId.
func (e Engine) returningID() bool {
	return e == EnginePostgres
}

// schema returns the idempotent DDL for the four tables.
//
// Quote-text uniqueness is per-author, stated directly in the DDL: the
// same text under two authors is two rows, while re-scraping a quote is a
// no-op.
func (e Engine) schema() []string {
	if e == EnginePostgres {
		return []string{
			`CREATE TABLE IF NOT EXISTS authors (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				about TEXT NOT NULL DEFAULT '',
				about_link TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS quotes (
				id BIGSERIAL PRIMARY KEY,
				text TEXT NOT NULL,
				author_id BIGINT NOT NULL REFERENCES authors(id),
				UNIQUE (text, author_id)
			)`,
			`CREATE TABLE IF NOT EXISTS tags (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS quote_tags (
				quote_id BIGINT NOT NULL REFERENCES quotes(id),
				tag_id BIGINT NOT NULL REFERENCES tags(id),
				PRIMARY KEY (quote_id, tag_id)
			)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			about TEXT NOT NULL DEFAULT '',
			about_link TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			author_id INTEGER NOT NULL REFERENCES authors(id),
			UNIQUE (text, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS quote_tags (
			quote_id INTEGER NOT NULL REFERENCES quotes(id),
			tag_id INTEGER NOT NULL REFERENCES tags(id),
			PRIMARY KEY (quote_id, tag_id)
		)`,
	}
}

// upsertAuthorQuery inserts an author or updates about/about_link on name
// conflict.
func (e Engine) upsertAuthorQuery() string {
	if e == EnginePostgres {
		return `INSERT INTO authors (name, about, about_link) VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET about = EXCLUDED.about, about_link = EXCLUDED.about_link`
	}
	return `INSERT INTO authors (name, about, about_link) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET about = excluded.about, about_link = excluded.about_link`
}

// insertTagQuery inserts a tag, silently skipping an existing name.
func (e Engine) insertTagQuery() string {
	if e == EnginePostgres {
		return `INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`
	}
	return `INSERT OR IGNORE INTO tags (name) VALUES (?)`
}

// linkQuoteTagQuery inserts a (quote, tag) pair, silently skipping an
// existing pair.
func (e Engine) linkQuoteTagQuery() string {
	if e == EnginePostgres {
		return `INSERT INTO quote_tags (quote_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`
	}
	return `INSERT OR IGNORE INTO quote_tags (quote_id, tag_id) VALUES (?, ?)`
}
