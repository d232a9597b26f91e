package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/noteflow/internal/client/client"
	"github.com/dmitrijs2005/noteflow/internal/client/config"
	"github.com/dmitrijs2005/noteflow/internal/client/models"
	"github.com/dmitrijs2005/noteflow/internal/client/repositories/kv"
	"github.com/dmitrijs2005/noteflow/internal/client/services"
	"github.com/dmitrijs2005/noteflow/internal/client/store"
	"github.com/dmitrijs2005/noteflow/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    *store.NoteStore
	notes    services.NotesService
	ai       services.AIService
	aiClient client.Client
	reader   *bufio.Reader
	out      io.Writer
	logFile  io.Closer

	mode atomic.Value
}

// NewApp opens the configured store, loads the session and wires the AI
// client. The caller must call Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	var logOut io.Writer = os.Stderr
	var logFile io.Closer
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut, logFile = f, f
	}
	logger := logging.New(logOut, "text", c.LogLevel)

	repo, err := kv.Open(ctx, c.StoreDriver, c.StorePath)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, fmt.Errorf("open %s store at %s: %w", c.StoreDriver, c.StorePath, err)
	}
	st := store.NewNoteStore(repo, logger)

	notes := services.NewNotesService(ctx, st, logger)
	aiClient := client.NewHTTPClient(c.AIEndpointAddr, []byte(c.AISecret), c.AIRequestTimeout)

	app := &App{
		config:   c,
		logger:   logger,
		store:    st,
		notes:    notes,
		ai:       services.NewAIService(notes, aiClient, logger),
		aiClient: aiClient,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		logFile:  logFile,
	}
	app.mode.Store(ModeUnknown)
	return app, nil
}

func (a *App) Mode() Mode {
	m, _ := a.mode.Load().(Mode)
	return m
}

func (a *App) setMode(mode Mode) {
	if old := a.mode.Swap(mode); old != mode {
		a.logger.Info(context.Background(), "AI server status changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher probes the AI server every interval until ctx is
// done. The result only feeds the prompt; AI commands are attempted anyway.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.aiClient.Ping(pctx); err != nil {
			a.setMode(ModeOffline)
			return
		}
		a.setMode(ModeOnline)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

// watchStore reloads the session when another process rewrites the store.
func (a *App) watchStore(ctx context.Context) {
	started, err := a.store.Watch(ctx, func() {
		if a.notes.Reload(ctx) {
			printlnFn("\nNotes changed outside this session and were reloaded.")
		}
	})
	if err != nil {
		a.logger.Warn(ctx, "store watch failed", "error", err)
		return
	}
	if started {
		a.logger.Debug(ctx, "watching store for external changes")
	}
}

func (a *App) status() string {
	n := a.notes.Current()
	s := n.DisplayTitle()
	switch n.State() {
	case models.StateLocked:
		s += " 🔒"
	case models.StateUnlocked:
		s += " 🔓"
	}
	if a.Mode() == ModeOffline {
		s += " | ai offline"
	}
	return "[" + s + "]"
}

// Run starts the background watchers and the REPL. It returns when the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to NoteFlow (type 'help' for commands)")

	a.watchStore(ctx)
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.status, a.reader)
}

// Close locks the selected note if it is unlocked, writes the collection
// and releases the store.
func (a *App) Close(ctx context.Context) error {
	err := a.notes.Close(ctx)
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	return err
}
