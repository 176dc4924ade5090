package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// promptTemplate asks a language model for a JSON object of cards. The two
// %d/%s verbs are the card limit and the material.
const promptTemplate = `You are helping a student study. Read the material below and write at most %d flashcards that test its key facts and concepts.

Respond with a single JSON object of the form:
{"cards": [{"question": "...", "answer": "...", "tags": ["..."]}]}

Keep questions self-contained and answers short. Use lowercase single-word tags.

Material:
"""
%s
"""`

// BuildPrompt renders the card extraction prompt for content.
func BuildPrompt(content string, maxCards int) string {
	return fmt.Sprintf(promptTemplate, maxCards, strings.TrimSpace(content))
}

type draftEnvelope struct {
	Cards []CardDraft `json:"cards"`
}

// ParseDrafts decodes a model response produced for BuildPrompt. It accepts
// the JSON object optionally wrapped in a Markdown code fence, and also a
// bare JSON array of cards.
func ParseDrafts(text string, maxCards int) ([]CardDraft, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var drafts []CardDraft
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &drafts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	} else {
		var env draftEnvelope
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		drafts = env.Cards
	}

	return Clean(drafts, maxCards), nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
