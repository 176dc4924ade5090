// Package learning orchestrates the spaced repetition service. It owns the
// card lifecycle (creation, due selection, review), turns stored history into
// analytics and study advice, and persists cards proposed by a
// generation.ContentExtractor. Every multi-row write runs in one transaction.
package learning
