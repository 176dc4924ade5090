// Package domain contains the core entities of the spaced repetition
// service: learning cards, immutable review records, study session
// aggregates, and the report types derived from them. It has no knowledge of
// storage or transport and depends only on the standard library and uuid.
package domain
