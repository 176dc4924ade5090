// Package openai provides a generation.ContentExtractor for OpenAI and
// OpenAI-compatible chat completion APIs (selected with llm.openai_base_url).
package openai
