package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/dmitrijs2005/noteflow/internal/textx"
)

// MinSummaryLength is the shortest plain text worth sending for a summary.
const MinSummaryLength = 50

// TooShortSummary is returned instead of a summary for short notes.
const TooShortSummary = "Note too short to summarize"

// AIClient is the remote AI helper.
type AIClient interface {
	Summarize(ctx context.Context, content string) (string, error)
	Tags(ctx context.Context, title, content string) ([]string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// AIService runs AI helpers against notes of the session. Locked notes are
// refused with common.ErrNoteLocked so ciphertext is never sent out.
type AIService interface {
	Summarize(ctx context.Context, id string) (string, error)
	GenerateTags(ctx context.Context, id string) ([]string, error)
	Translate(ctx context.Context, id, targetLanguage string) (string, error)
	CheckGrammar(ctx context.Context, id string) ([]textx.Hint, error)
}

type aiService struct {
	notes  NotesService
	client AIClient
	log    logging.Logger
}

func NewAIService(notes NotesService, client AIClient, l logging.Logger) AIService {
	return &aiService{notes: notes, client: client, log: l.With("module", "ai")}
}

// readable returns the note and its markup-free text.
func (s *aiService) readable(id string) (*models.Note, string, error) {
	n, err := s.notes.Get(id)
	if err != nil {
		return nil, "", err
	}
	if n.State() == models.StateLocked {
		return nil, "", fmt.Errorf("note %s: %w", id, common.ErrNoteLocked)
	}
	return n, strings.TrimSpace(textx.StripHTML(n.Content)), nil
}

// Summarize asks for a summary and stores it on the note. Notes shorter than
// MinSummaryLength get TooShortSummary without a remote call and are not
// changed.
func (s *aiService) Summarize(ctx context.Context, id string) (string, error) {
	_, text, err := s.readable(id)
	if err != nil {
		return "", err
	}
	if textx.RuneLen(text) < MinSummaryLength {
		return TooShortSummary, nil
	}

	summary, err := s.client.Summarize(ctx, text)
	if err != nil {
		s.log.Warn(ctx, "summarize failed", "id", id, "error", err)
		return "", fmt.Errorf("summarize note %s: %w", id, err)
	}

	if _, err := s.notes.Update(ctx, id, Patch{Summary: &summary}); err != nil {
		return "", err
	}
	return summary, nil
}

// GenerateTags replaces the note's tags with the extracted keywords.
func (s *aiService) GenerateTags(ctx context.Context, id string) ([]string, error) {
	n, text, err := s.readable(id)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("add content to generate tags: %w", common.ErrorValidation)
	}

	tags, err := s.client.Tags(ctx, n.Title, n.Content)
	if err != nil {
		s.log.Warn(ctx, "tag generation failed", "id", id, "error", err)
		return nil, fmt.Errorf("generate tags for note %s: %w", id, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("could not generate tags from content: %w", common.ErrorValidation)
	}

	if _, err := s.notes.Update(ctx, id, Patch{Tags: tags}); err != nil {
		return nil, err
	}
	return tags, nil
}

// Translate returns a translation of the note text; the note is not changed.
func (s *aiService) Translate(ctx context.Context, id, targetLanguage string) (string, error) {
	_, text, err := s.readable(id)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("add content to translate: %w", common.ErrorValidation)
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return "", fmt.Errorf("target language is required: %w", common.ErrorValidation)
	}

	translation, err := s.client.Translate(ctx, text, targetLanguage)
	if err != nil {
		s.log.Warn(ctx, "translate failed", "id", id, "error", err)
		return "", fmt.Errorf("translate note %s: %w", id, err)
	}
	return translation, nil
}

// CheckGrammar runs the local grammar hints over the note text.
func (s *aiService) CheckGrammar(ctx context.Context, id string) ([]textx.Hint, error) {
	_, text, err := s.readable(id)
	if err != nil {
		return nil, err
	}
	return textx.CheckGrammar(text), nil
}
