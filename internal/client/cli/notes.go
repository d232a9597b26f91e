package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/client/services"
	"github.com/dmitrijs2005/noteflow/internal/common"
	"github.com/dustin/go-humanize"
)

// shortIDLength is how much of a note id is shown and needed to pick it.
const shortIDLength = 8

// getSimpleText and getMultiline are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
)

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

// resolveID returns the selected note's id when args is empty, otherwise
// the one note whose id starts with args[0].
func (a *App) resolveID(args []string) (string, error) {
	if len(args) == 0 {
		return a.notes.Current().ID, nil
	}

	prefix := strings.ToLower(args[0])
	var found []string
	for _, n := range a.notes.List(services.ListOptions{}) {
		if n.ID == prefix {
			return n.ID, nil
		}
		if strings.HasPrefix(n.ID, prefix) {
			found = append(found, n.ID)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("note %s: %w", prefix, common.ErrorNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d notes: %w", prefix, len(found), common.ErrorValidation)
	}
}

func (a *App) New(ctx context.Context) error {
	n := a.notes.Create(ctx)
	printlnFn("Created note", shortID(n.ID))
	return nil
}

// List prints the notes, pinned first. The first argument may name a sort
// order; the remaining ones form the search query.
func (a *App) List(ctx context.Context, args []string) error {
	order := models.SortRecent
	if len(args) > 0 {
		if o, err := models.ParseSortOrder(args[0]); err == nil {
			order = o
			args = args[1:]
		}
	}

	notes := a.notes.List(services.ListOptions{Sort: order, Query: strings.Join(args, " ")})
	if len(notes) == 0 {
		printlnFn("No notes found")
		return nil
	}

	currentID := a.notes.Current().ID
	for _, n := range notes {
		printlnFn(formatListLine(n, n.ID == currentID))
	}
	return nil
}

func formatListLine(n *models.Note, current bool) string {
	var b strings.Builder

	if current {
		b.WriteString("* ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(shortID(n.ID))
	b.WriteString(" ")
	if n.IsPinned {
		b.WriteString("📌 ")
	}
	if n.State() != models.StatePlain {
		b.WriteString("🔒 ")
	}
	b.WriteString(n.DisplayTitle())
	fmt.Fprintf(&b, " (%s)", humanize.Time(n.UpdatedAt))
	if p := n.Preview(); p != "" {
		b.WriteString("\n      ")
		b.WriteString(p)
	}
	return b.String()
}

func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: select <id>")
		return nil
	}
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	n, err := a.notes.Select(ctx, id)
	if err != nil {
		return err
	}
	printlnFn("Selected", n.DisplayTitle())
	return nil
}

func (a *App) Show(ctx context.Context) error {
	n := a.notes.Current()

	printlnFn("Title:  ", n.DisplayTitle())
	printlnFn("ID:     ", n.ID)
	printlnFn("State:  ", string(n.State()))
	printlnFn("Created:", humanize.Time(n.CreatedAt))
	printlnFn("Updated:", humanize.Time(n.UpdatedAt))
	if n.IsPinned {
		printlnFn("Pinned: ", "yes")
	}
	if len(n.Tags) > 0 {
		printlnFn("Tags:   ", formatTags(n.Tags))
	}
	if n.Summary != "" {
		printlnFn("Summary:", n.Summary)
	}
	printlnFn()

	if n.State() == models.StateLocked {
		printlnFn("This note is locked. Use 'decrypt' to read it.")
		return nil
	}
	if n.Content == "" {
		printlnFn("(empty)")
		return nil
	}
	printlnFn(n.Content)
	return nil
}

func formatTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

func (a *App) Title(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	_, err = a.notes.Update(ctx, a.notes.Current().ID, services.Patch{Title: &title})
	return err
}

// Edit replaces the selected note's content. Locked notes must be
// decrypted first.
func (a *App) Edit(ctx context.Context) error {
	n := a.notes.Current()
	if n.State() == models.StateLocked {
		return common.ErrNoteLocked
	}

	content, err := getMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}
	_, err = a.notes.Update(ctx, n.ID, services.Patch{Content: &content})
	return err
}

func (a *App) Tags(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter tags, comma separated (empty clears)", a.out)
	if err != nil {
		return err
	}
	_, err = a.notes.Update(ctx, a.notes.Current().ID, services.Patch{Tags: ParseTags(raw)})
	return err
}

func (a *App) Pin(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	n, err := a.notes.TogglePin(ctx, id)
	if err != nil {
		return err
	}
	if n.IsPinned {
		printlnFn("Pinned", n.DisplayTitle())
	} else {
		printlnFn("Unpinned", n.DisplayTitle())
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	n, err := a.notes.Get(id)
	if err != nil {
		return err
	}

	if !a.confirm(fmt.Sprintf("Delete %q?", n.DisplayTitle())) {
		printlnFn("Cancelled")
		return nil
	}
	if err := a.notes.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted", n.DisplayTitle())
	return nil
}

// Restore rolls the collection back to the previous save.
func (a *App) Restore(ctx context.Context) error {
	if !a.confirm("Restore notes as they were before the last change?") {
		printlnFn("Cancelled")
		return nil
	}
	if err := a.notes.Restore(ctx); err != nil {
		return err
	}
	printlnFn("Restored previous version")
	return nil
}

func (a *App) confirm(question string) bool {
	answer, err := getSimpleText(a.reader, question+" (y/N)", a.out)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
