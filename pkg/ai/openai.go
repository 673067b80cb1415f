// Package ai generates short human-readable order summaries through the
// OpenAI chat completions API. Rate limits and generic API failures degrade
// to "no summary"; authentication problems and empty responses are typed so
// the caller can decide between fallback and abort.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Request describes one summarization call.
type Request struct {
	// Items are plain item descriptions parsed out of the composed memo.
	Items []string
	// OrderURL is kept for context only; the model is told not to echo it.
	OrderURL string
	// Warning is the partial-order warning line, empty when the charge
	// covers the whole order. It is re-appended after summarization.
	Warning string
	// Markdown selects the numbered-list prompt over the comma-joined one.
	Markdown bool
	// MaxLength truncates the model output when it overruns.
	MaxLength int
}

// Summarizer produces a memo body from an order's item list. A nil
// Summarizer means the capability is absent and the deterministic
// truncation path is used instead.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAI is the concrete Summarizer backed by the chat completions API.
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func NewOpenAI(apiKey, model string, logger *log.Logger) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Summarize asks the model for a concise item list and bounds the result to
// req.MaxLength characters.
func (c *OpenAI) Summarize(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	userPrompt := summaryPlainPrompt
	if req.Markdown {
		userPrompt = summaryMarkdownPrompt
	}

	var details strings.Builder
	for _, item := range req.Items {
		details.WriteString("- ")
		details.WriteString(item)
		details.WriteString("\n")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: fmt.Sprintf("%s\n\nOrder Details:\n%s", userPrompt, details.String())},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("openai request failed", "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read openai response", "error", err)
		return "", nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErrorMessage(raw))
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Error("openai rate limit exceeded", "detail", apiErrorMessage(raw))
		return "", nil
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("openai api error", "status", resp.StatusCode, "detail", apiErrorMessage(raw))
		return "", nil
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Error("failed to parse openai response", "error", err)
		return "", nil
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	content := parsed.Choices[0].Message.Content
	if req.MaxLength > 0 && len(content) > req.MaxLength {
		content = content[:req.MaxLength]
	}
	if req.Warning != "" && !strings.Contains(content, req.Warning) {
		content = content + " " + req.Warning
	}

	return content, nil
}

func apiErrorMessage(raw []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(raw)
}
