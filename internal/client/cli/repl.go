package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	New(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Show(ctx context.Context) error
	Title(ctx context.Context) error
	Edit(ctx context.Context) error
	Tags(ctx context.Context) error
	Pin(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Restore(ctx context.Context) error

	Encrypt(ctx context.Context) error
	Decrypt(ctx context.Context) error
	Unencrypt(ctx context.Context) error

	Summarize(ctx context.Context) error
	AutoTags(ctx context.Context) error
	Translate(ctx context.Context, args []string) error
	Grammar(ctx context.Context) error
}

const helpText = `Available commands:
  new                              create a note and select it
  list [recent|oldest|title] [q]   list notes, pinned first, optionally filtered
  select <id>                      select a note (an unlocked note is locked again)
  show                             print the selected note
  title | edit | tags              change title, content or tags
  pin [id] | delete [id]           toggle pin / delete (selected note by default)
  restore                          undo the last saved change (sqlite store)
  encrypt | decrypt | unencrypt    manage the selected note's encryption
  summarize | autotags             AI summary / AI tags for the selected note
  translate <language>             AI translation of the selected note
  grammar                          grammar hints for the selected note
  exit | quit                      leave (the selected note is locked again)`

// runREPL starts a simple read–eval–print loop for the NoteFlow CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Errors returned by handlers are printed and
// the loop continues. The loop exits on EOF or when the user types "exit" or
// "quit". Prompts issued by the handlers must read from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nf %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "new":
			cmdErr = a.New(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "select":
			cmdErr = a.Select(ctx, args)
		case "show":
			cmdErr = a.Show(ctx)
		case "title":
			cmdErr = a.Title(ctx)
		case "edit":
			cmdErr = a.Edit(ctx)
		case "tags":
			cmdErr = a.Tags(ctx)
		case "pin":
			cmdErr = a.Pin(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "restore":
			cmdErr = a.Restore(ctx)

		case "encrypt":
			cmdErr = a.Encrypt(ctx)
		case "decrypt":
			cmdErr = a.Decrypt(ctx)
		case "unencrypt":
			cmdErr = a.Unencrypt(ctx)

		case "summarize":
			cmdErr = a.Summarize(ctx)
		case "autotags":
			cmdErr = a.AutoTags(ctx)
		case "translate":
			cmdErr = a.Translate(ctx, args)
		case "grammar":
			cmdErr = a.Grammar(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}
