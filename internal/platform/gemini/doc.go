// Package gemini provides a generation.ContentExtractor backed by Google's
// Gemini API.
//
// The extractor renders the shared card prompt, asks the model for a JSON
// response and decodes it with generation.ParseDrafts. API errors are treated
// as transient and retried with exponential backoff and jitter; responses
// blocked by safety filters or without usable content fail immediately.
package gemini
