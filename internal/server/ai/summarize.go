package ai

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/textx"
)

const (
	// MinSummaryLength is the shortest plain text worth summarizing.
	MinSummaryLength = 50
	TooShortSummary  = "Note too short to summarize"
	NoSummary        = "Unable to generate summary"

	summarySystemPrompt = "You are a helpful assistant that summarizes notes concisely. Provide a summary in 1-2 sentences, capturing the main ideas."
	summaryUserPrompt   = "Please summarize this note in 1-2 sentences:\n\n"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Summarize returns a one or two sentence summary of content, which may
// contain markup. The hosted model is tried first; any failure or empty
// answer falls back to LocalSummary.
func (s *Service) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrContentRequired
	}

	text := strings.TrimSpace(textx.StripHTML(content))
	if textx.RuneLen(text) < MinSummaryLength {
		return TooShortSummary, nil
	}

	if s.llm != nil {
		out, err := s.llm.Complete(ctx, []Message{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: summaryUserPrompt + text},
		}, Options{Op: "summarize", MaxTokens: 150, Temperature: 0.7})

		if out = strings.TrimSpace(out); err == nil && out != "" {
			return out, nil
		}
		s.log.Warn(ctx, "hosted summary unavailable, using local fallback", "error", err)
	}

	s.rec.ObserveFallback("summarize")
	return LocalSummary(text), nil
}

// LocalSummary picks up to two sentences of text: the first, the middle,
// the last and a few evenly spaced ones, kept in document order.
func LocalSummary(text string) string {
	sentences := sentenceRe.FindAllString(text, -1)
	n := len(sentences)

	if n == 0 {
		if textx.RuneLen(text) > 200 {
			return textx.Truncate(text, 200) + "..."
		}
		return text
	}

	picked := map[int]struct{}{0: {}}
	if n > 1 {
		picked[n/2] = struct{}{}
	}
	if n > 2 {
		picked[n-1] = struct{}{}
	}

	toAdd := min(3, (n+3)/4)
	step := max(1, n/toAdd)
	for i := 0; i < n; i += step {
		picked[i] = struct{}{}
	}

	idx := make([]int, 0, len(picked))
	for i := range picked {
		idx = append(idx, i)
	}
	slices.Sort(idx)

	var out []string
	for _, i := range idx {
		sent := strings.TrimSpace(sentences[i])
		if !strings.HasSuffix(sent, ".") && !strings.HasSuffix(sent, "!") && !strings.HasSuffix(sent, "?") {
			sent += "."
		}
		if textx.RuneLen(sent) <= 10 {
			continue
		}
		out = append(out, sent)
		if len(out) == 2 {
			break
		}
	}

	if summary := strings.TrimSpace(strings.Join(out, " ")); summary != "" {
		return summary
	}
	return NoSummary
}
