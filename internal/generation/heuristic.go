package generation

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Heuristic extraction thresholds.
const (
	// MinParagraphLength is the length a paragraph must exceed to be considered.
	MinParagraphLength = 50

	// MinPassageLength is the length from which a paragraph without a
	// definition still yields an "explain this passage" card.
	MinPassageLength = 100

	// DefaultMaxCards caps the drafts produced for one document.
	DefaultMaxCards = 20

	passageExcerptLength = 80
	maxTermLength        = 80
)

// Tags attached to heuristic drafts.
const (
	TagDefinition = "definition"
	TagPassage    = "passage"
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+(\s+|$)`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// definitionPattern recognises "<term> <phrase> <definition>" sentences.
type definitionPattern struct {
	phrase   string
	question func(term string) string
}

var definitionPatterns = []definitionPattern{
	{" is defined as ", func(term string) string { return "What is " + term + "?" }},
	{" refers to ", func(term string) string { return "What does " + term + " refer to?" }},
	{" means ", func(term string) string { return "What does " + term + " mean?" }},
}

// HeuristicExtractor derives cards from plain text without any model.
//
// Paragraphs are separated by blank lines and only those longer than
// MinParagraphLength characters are used. Every sentence of the form
// "X is defined as Y", "X refers to Y" or "X means Y" becomes a definition
// card. A paragraph without such a sentence becomes a single
// "explain this passage" card when it is at least MinPassageLength long.
type HeuristicExtractor struct {
	maxCards int
}

// NewHeuristicExtractor returns a HeuristicExtractor producing at most
// maxCards drafts; maxCards <= 0 selects DefaultMaxCards.
func NewHeuristicExtractor(maxCards int) *HeuristicExtractor {
	if maxCards <= 0 {
		maxCards = DefaultMaxCards
	}
	return &HeuristicExtractor{maxCards: maxCards}
}

var _ ContentExtractor = (*HeuristicExtractor)(nil)

// Extract implements ContentExtractor.
func (e *HeuristicExtractor) Extract(ctx context.Context, content string) ([]CardDraft, error) {
	var drafts []CardDraft

	for _, raw := range paragraphSplit.Split(strings.ReplaceAll(content, "\r\n", "\n"), -1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paragraph := whitespace.ReplaceAllString(strings.TrimSpace(raw), " ")
		length := utf8.RuneCountInString(paragraph)
		if length <= MinParagraphLength {
			continue
		}

		definitions := extractDefinitions(paragraph)
		switch {
		case len(definitions) > 0:
			drafts = append(drafts, definitions...)
		case length >= MinPassageLength:
			drafts = append(drafts, CardDraft{
				Question: "Explain this passage: \"" + excerpt(paragraph, passageExcerptLength) + "\"",
				Answer:   paragraph,
				Tags:     []string{TagPassage},
			})
		}

		if len(drafts) >= e.maxCards {
			break
		}
	}

	return Clean(drafts, e.maxCards), nil
}

func extractDefinitions(paragraph string) []CardDraft {
	var drafts []CardDraft
	for _, sentence := range splitSentences(paragraph) {
		lower := strings.ToLower(sentence)
		if len(lower) != len(sentence) {
			lower = sentence
		}
		for _, p := range definitionPatterns {
			idx := strings.Index(lower, p.phrase)
			if idx <= 0 {
				continue
			}
			term := strings.TrimSpace(sentence[:idx])
			definition := strings.TrimSpace(sentence[idx+len(p.phrase):])
			if term == "" || definition == "" || utf8.RuneCountInString(term) > maxTermLength {
				continue
			}
			drafts = append(drafts, CardDraft{
				Question: p.question(term),
				Answer:   capitalize(definition) + ".",
				Tags:     []string{TagDefinition},
			})
			break
		}
	}
	return drafts
}

func splitSentences(paragraph string) []string {
	parts := sentenceSplit.Split(paragraph, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
