package ai

import "errors"

var (
	// ErrMissingAPIKey is returned when summarization is requested without
	// an API key configured. Callers fall back to deterministic truncation.
	ErrMissingAPIKey = errors.New("openai api key not found")

	// ErrInvalidAPIKey is returned when the provider rejects the key.
	ErrInvalidAPIKey = errors.New("invalid openai api key")

	// ErrEmptyResponse is returned when the provider answers successfully
	// but without any content. That is a contract violation and is never
	// silently swallowed.
	ErrEmptyResponse = errors.New("openai returned an empty response")
)
