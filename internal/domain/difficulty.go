package domain

import (
	"strings"
	"unicode"
)

// analyticKeywords mark questions that ask for reasoning rather than recall.
var analyticKeywords = []string{"why", "explain", "compare", "contrast", "analyze", "evaluate"}

// technicalTerms are vocabulary that tends to make a card harder to recall.
var technicalTerms = []string{
	"algorithm", "theorem", "equation", "derivative", "integral", "hypothesis",
	"mechanism", "function", "protocol", "complexity", "molecule", "coefficient",
	"synthesis", "architecture", "probability", "proof",
}

const (
	longContentChars     = 200
	veryLongContentChars = 500
	longWordChars        = 13
)

// EstimateInitialDifficulty scores a new card in [0,1] from its text. A short
// factual card stays at BaselineDifficulty; long content, analytic prompts and
// technical vocabulary push the estimate up.
func EstimateInitialDifficulty(question, answer string) float64 {
	difficulty := BaselineDifficulty

	length := len(question) + len(answer)
	switch {
	case length > veryLongContentChars:
		difficulty += 0.2
	case length > longContentChars:
		difficulty += 0.1
	}

	words := tokenize(question)
	for _, kw := range analyticKeywords {
		if containsWord(words, kw) {
			difficulty += 0.1
			break
		}
	}

	all := append(words, tokenize(answer)...)
	technical := 0
	for _, w := range all {
		if len(w) >= longWordChars || isTechnicalTerm(w) {
			technical++
		}
	}
	if technical > 3 {
		technical = 3
	}
	difficulty += 0.05 * float64(technical)

	return clamp(difficulty, 0, 1)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target {
			return true
		}
	}
	return false
}

func isTechnicalTerm(word string) bool {
	for _, term := range technicalTerms {
		if word == term || strings.HasPrefix(word, term) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
