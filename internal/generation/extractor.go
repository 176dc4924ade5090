package generation

import (
	"context"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/domain"
)

// CardDraft is a proposed flashcard that has not been persisted yet.
type CardDraft struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}

// ContentExtractor proposes flashcards for a piece of study material.
type ContentExtractor interface {
	// Extract returns the drafts found in content, possibly none.
	// Errors are one of the sentinels in errors.go, wrapped with detail.
	Extract(ctx context.Context, content string) ([]CardDraft, error)
}

// Clean trims every draft, lowercases and normalizes its tags, drops drafts
// without a question or answer and keeps at most max of them (max <= 0 means
// no limit).
func Clean(drafts []CardDraft, max int) []CardDraft {
	out := make([]CardDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Question = strings.TrimSpace(d.Question)
		d.Answer = strings.TrimSpace(d.Answer)
		if d.Question == "" || d.Answer == "" {
			continue
		}
		tags := make([]string, len(d.Tags))
		for i, tag := range d.Tags {
			tags[i] = strings.ToLower(tag)
		}
		d.Tags = domain.NewTags(tags...)
		out = append(out, d)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
