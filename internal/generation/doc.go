// Package generation turns study material into flashcard drafts.
//
// The ContentExtractor interface is the boundary between the learning
// service and whatever produces cards: the built-in HeuristicExtractor, or
// the LLM-backed extractors in internal/platform/gemini and
// internal/platform/openai. Extractors only propose question and answer
// pairs; scheduling state is assigned when the service persists them.
package generation
