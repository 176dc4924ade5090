// Package sqlstore implements the store interfaces on top of sqlx.
//
// The same stores run against an embedded SQLite database (modernc.org/sqlite,
// the default) or PostgreSQL (pgx). Statements are written with '?'
// placeholders and rebound for the active driver. Schema changes are applied
// by goose from the per-dialect migrations embedded in this package.
package sqlstore
