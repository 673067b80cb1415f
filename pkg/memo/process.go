// Package memo composes itemized order memos and guarantees they fit
// YNAB's 500 character limit. Fitting is deterministic: the order URL, the
// partial-order warning, the items header, and the account tag always
// survive; item lines are kept greedily in their original order. An
// optional AI summarization path produces a shorter body and falls back to
// truncation whenever it cannot deliver.
package memo

import (
	"errors"
	"regexp"
	"strings"

	"context"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/ynamazon/pkg/ai"
)

// Limit is YNAB's character limit for memos.
const Limit = 500

// warningPrefix marks the partial-order warning line.
const warningPrefix = "-This transaction"

var (
	markdownOrderURLRe = regexp.MustCompile(`\[Order\s*#[\w-]+\]\((https://www\.amazon\.com/gp/your-account/order-details\?orderID=[\w-]+)\)`)
	plainOrderURLRe    = regexp.MustCompile(`https://www\.amazon\.com/gp/your-account/order-details\?orderID=[\w-]+`)
	markdownLinkRe     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownBoldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// Normalize rejoins URL fragments that were split across lines by a line
// wrap, leaving every other line untouched.
func Normalize(memo string) string {
	memo = strings.ReplaceAll(memo, "\r\n", "\n")
	memo = strings.ReplaceAll(memo, "\r", "\n")

	var result []string
	var current string
	inURL := false

	for _, line := range strings.Split(memo, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "amazon.com"):
			current += stripped
			inURL = true
		case inURL && (strings.HasSuffix(stripped, "-") || strings.HasSuffix(stripped, ")")):
			current += stripped
			if strings.HasSuffix(stripped, ")") {
				inURL = false
				result = append(result, current)
				current = ""
			}
		case inURL:
			current += stripped
		default:
			if current != "" {
				result = append(result, current)
				current = ""
			}
			result = append(result, line)
		}
	}
	if current != "" {
		result = append(result, current)
	}

	return strings.Join(result, "\n")
}

// ExtractOrderURL finds the Amazon order URL in a memo, whether it is
// wrapped in a markdown link or appears bare.
func ExtractOrderURL(memo string) (string, bool) {
	normalized := Normalize(memo)

	if m := markdownOrderURLRe.FindStringSubmatch(normalized); m != nil {
		return m[1], true
	}
	if m := plainOrderURLRe.FindString(normalized); m != "" {
		return m, true
	}
	return "", false
}

// extractAccountPrefix splits off a leading "[Account N]" line when present.
func extractAccountPrefix(memo string) (string, string) {
	lines := strings.Split(strings.TrimSpace(memo), "\n")
	if len(lines) > 0 {
		first := strings.TrimSpace(lines[0])
		if strings.HasPrefix(first, "[") && strings.HasSuffix(first, "]") && strings.Contains(first, "Account") {
			return first, strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}
	return "", memo
}

func stripMarkdown(memo string) string {
	memo = markdownLinkRe.ReplaceAllString(memo, "$1")
	return markdownBoldRe.ReplaceAllString(memo, "$1")
}

// extractParts pulls the structural pieces out of a markdown-stripped memo:
// the partial-order warning, the items header, and the item lines.
func extractParts(memo string) (warning, header string, items []string) {
	for _, raw := range strings.Split(strings.ReplaceAll(memo, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case warning == "" && strings.HasPrefix(line, warningPrefix):
			warning = line
		case line == "Items":
			header = line
		case line[0] >= '0' && line[0] <= '9' && strings.Contains(line, ". "):
			items = append(items, line)
		}
	}
	return warning, header, items
}

// remainingSpace subtracts the protected lines (plus a newline each) from
// the budget; what is left belongs to the item lines.
func remainingSpace(parts ...string) int {
	space := Limit
	for _, part := range parts {
		if part != "" {
			space -= len(part) + 1
		}
	}
	return space
}

// truncateItems keeps item lines in order while they fit. When one does
// not, a "..." marker is added if at least four characters remain.
func truncateItems(items []string, space int) []string {
	var kept []string
	length := 0

	for _, item := range items {
		itemLength := len(item) + 1
		if length+itemLength <= space {
			kept = append(kept, item)
			length += itemLength
			continue
		}
		if space-length >= 4 {
			kept = append(kept, "...")
		}
		break
	}

	return kept
}

// Truncate fits a memo into the character limit, keeping the account tag,
// the partial-order warning, the items header, and the order URL intact.
// Memos already under the limit come back unchanged.
func Truncate(memo string) string {
	if len(memo) <= Limit {
		return memo
	}

	prefix, body := extractAccountPrefix(memo)
	url, _ := ExtractOrderURL(body)

	warning, header, items := extractParts(stripMarkdown(body))

	kept := truncateItems(items, remainingSpace(prefix, warning, header, url))

	var lines []string
	if prefix != "" {
		lines = append(lines, prefix)
	}
	if warning != "" {
		lines = append(lines, warning)
	}
	if header != "" && len(kept) > 0 {
		lines = append(lines, header)
	}
	lines = append(lines, kept...)
	if url != "" {
		lines = append(lines, url)
	}

	return strings.Join(lines, "\n")
}

// Process fits a memo into the limit. With a summarizer present the AI path
// runs first; it degrades to Truncate on missing or rejected credentials
// and on any call that produced no usable summary. An empty provider
// response is a contract violation and is returned as an error.
func Process(ctx context.Context, memo string, summarizer ai.Summarizer, opts Options, logger *log.Logger) (string, error) {
	url, ok := ExtractOrderURL(memo)
	if !ok {
		logger.Warn("no amazon order url found in memo")
		return memo, nil
	}

	if summarizer != nil {
		summary, summarized, err := summarizeWithAI(ctx, memo, url, summarizer, opts)
		switch {
		case errors.Is(err, ai.ErrMissingAPIKey), errors.Is(err, ai.ErrInvalidAPIKey):
			logger.Warn("ai summarization unavailable, falling back to truncation", "error", err)
		case err != nil:
			return "", err
		case !summarized:
			logger.Warn("no item lines found in memo, skipping ai summary")
			return summary, nil
		default:
			logger.Info("memo processed with ai", "from", len(memo), "to", len(summary))
			return summary, nil
		}
	}

	if len(memo) > Limit {
		out := Truncate(memo)
		logger.Info("memo truncated", "from", len(memo), "to", len(out))
		return out, nil
	}

	return memo, nil
}

// summarizeWithAI extracts the item list from the composed memo, asks the
// summarizer for a shorter body, and re-applies the account prefix. When no
// items are recoverable from the text the memo is returned unchanged
// without calling the provider, signaled by a false second return.
func summarizeWithAI(ctx context.Context, memo, orderURL string, summarizer ai.Summarizer, opts Options) (string, bool, error) {
	prefix, body := extractAccountPrefix(memo)
	clean := stripMarkdown(body)

	var items []string
	var warning string
	for _, raw := range strings.Split(clean, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "- "):
			items = append(items, line[2:])
		case line != "" && line[0] >= '0' && line[0] <= '9' && strings.Contains(line, ". "):
			items = append(items, line)
		case strings.HasPrefix(line, warningPrefix):
			warning = line
		}
	}

	if len(items) == 0 {
		return memo, false, nil
	}

	summary, err := summarizer.Summarize(ctx, ai.Request{
		Items:     items,
		OrderURL:  orderURL,
		Warning:   warning,
		Markdown:  opts.Markdown,
		MaxLength: Limit,
	})
	if err != nil {
		return "", false, err
	}

	// No summary produced (rate limit or generic API failure) or one that
	// still overruns: fall back to deterministic truncation.
	if summary == "" || len(summary) > Limit {
		return Truncate(memo), true, nil
	}

	if prefix != "" {
		summary = prefix + "\n" + summary
	}
	return summary, true, nil
}
