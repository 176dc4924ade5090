package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()
	prompt := BuildPrompt("  Mitochondria make ATP.  ", 7)
	assert.Contains(t, prompt, "at most 7 flashcards")
	assert.Contains(t, prompt, "\"\"\"\nMitochondria make ATP.\n\"\"\"")
	assert.Contains(t, prompt, `{"cards":`)
}

func TestParseDrafts(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		text    string
		max     int
		want    int
		wantErr bool
	}{
		{"object", `{"cards":[{"question":"Q1","answer":"A1","tags":["Bio","bio"]},{"question":"Q2","answer":"A2"}]}`, 10, 2, false},
		{"fenced object", "```json\n{\"cards\":[{\"question\":\"Q\",\"answer\":\"A\"}]}\n```", 10, 1, false},
		{"bare array", `[{"question":"Q","answer":"A"}]`, 10, 1, false},
		{"drops incomplete drafts", `{"cards":[{"question":"Q","answer":" "},{"question":"","answer":"A"}]}`, 10, 0, false},
		{"caps at max", `{"cards":[{"question":"1","answer":"a"},{"question":"2","answer":"b"},{"question":"3","answer":"c"}]}`, 2, 2, false},
		{"empty text", "   ", 10, 0, true},
		{"not json", "Here are your cards!", 10, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			drafts, err := ParseDrafts(tc.text, tc.max)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Len(t, drafts, tc.want)
		})
	}

	drafts, err := ParseDrafts(`{"cards":[{"question":" Q ","answer":" A ","tags":["b","a","b"]}]}`, 0)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, CardDraft{Question: "Q", Answer: "A", Tags: []string{"a", "b"}}, drafts[0])
}

func TestClean(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		drafts []CardDraft
		max    int
		want   []CardDraft
	}{
		{
			name:   "lowercases and dedupes tags",
			drafts: []CardDraft{{Question: "Q", Answer: "A", Tags: []string{"Biology", " biology ", "CELLS"}}},
			want:   []CardDraft{{Question: "Q", Answer: "A", Tags: []string{"biology", "cells"}}},
		},
		{
			name:   "no tags",
			drafts: []CardDraft{{Question: " Q ", Answer: " A "}},
			want:   []CardDraft{{Question: "Q", Answer: "A", Tags: []string{}}},
		},
		{
			name: "drops blank drafts before counting",
			drafts: []CardDraft{
				{Question: " ", Answer: "A"},
				{Question: "Q1", Answer: "A1"},
				{Question: "Q2", Answer: "A2"},
			},
			max:  1,
			want: []CardDraft{{Question: "Q1", Answer: "A1", Tags: []string{}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Clean(tc.drafts, tc.max))
		})
	}
}
