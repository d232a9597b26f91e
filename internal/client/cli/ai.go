package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

func (a *App) Summarize(ctx context.Context) error {
	summary, err := a.ai.Summarize(ctx, a.notes.Current().ID)
	if err != nil {
		return err
	}
	printlnFn("Summary:", summary)
	return nil
}

func (a *App) AutoTags(ctx context.Context) error {
	tags, err := a.ai.GenerateTags(ctx, a.notes.Current().ID)
	if err != nil {
		return err
	}
	printlnFn("Tags:", formatTags(tags))
	return nil
}

// Translate prints the selected note in another language. The language is
// taken from args or asked for.
func (a *App) Translate(ctx context.Context, args []string) error {
	lang := strings.Join(args, " ")
	if lang == "" {
		var err error
		if lang, err = getSimpleText(a.reader, "Target language (e.g. Spanish, French, German)", a.out); err != nil {
			return err
		}
	}

	translation, err := a.ai.Translate(ctx, a.notes.Current().ID, languageName(lang))
	if err != nil {
		return err
	}
	printlnFn(translation)
	return nil
}

// languageName capitalises the first letter, so "french" matches "French".
func languageName(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func (a *App) Grammar(ctx context.Context) error {
	hints, err := a.ai.CheckGrammar(ctx, a.notes.Current().ID)
	if err != nil {
		return err
	}
	if len(hints) == 0 {
		printlnFn("No issues found")
		return nil
	}
	for _, h := range hints {
		printlnFn(fmt.Sprintf("- [%s] %s (at %d)", h.Type, h.Message, h.Position))
	}
	return nil
}
