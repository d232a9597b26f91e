package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/netx"
	"github.com/dmitrijs2005/noteflow/internal/textx"
)

const (
	DefaultLanguage        = "Spanish"
	TranslationUnavailable = "Translation unavailable"
)

// Languages lists the targets with a dedicated placeholder.
var Languages = []string{"Spanish", "French", "German", "Italian", "Portuguese", "Russian", "Japanese", "Chinese"}

// Translate renders text in targetLanguage. Without a hosted model it
// returns a marked placeholder instead. Upstream failures are returned as
// *UpstreamError; there is no local fallback for them.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if text == "" || targetLanguage == "" {
		return "", ErrTranslateArgs
	}

	if s.llm == nil {
		s.rec.ObserveFallback("translate")
		return Placeholder(text, targetLanguage), nil
	}

	prompt := fmt.Sprintf("Translate the following text to %s. Provide only the translation, nothing else:\n\nText: %s", targetLanguage, text)
	out, err := s.llm.Complete(ctx, []Message{{Role: "user", Content: prompt}},
		Options{Op: "translate", MaxTokens: 2048, Temperature: 0.3})
	if err != nil {
		s.log.Error(ctx, "translation failed", "language", targetLanguage, "error", err)
		return "", &UpstreamError{Op: "translate", Err: err}
	}

	if strings.TrimSpace(out) == "" {
		return TranslationUnavailable, nil
	}
	return out, nil
}

// Placeholder marks text as untranslated. Unknown languages fall back to
// DefaultLanguage.
func Placeholder(text, targetLanguage string) string {
	if !slices.Contains(Languages, targetLanguage) {
		targetLanguage = DefaultLanguage
	}
	return fmt.Sprintf("[%s Translation] %s...", targetLanguage, textx.Truncate(text, 100))
}

// UpstreamDetails extracts what the hosted model said about a failure.
func UpstreamDetails(err error) string {
	var se *netx.StatusError
	if errors.As(err, &se) && se.Details != "" {
		return se.Details
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}
