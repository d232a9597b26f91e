package client

import (
	"context"
)

// Client is the CLI's view of the AI server.
type Client interface {
	Ping(ctx context.Context) error
	Summarize(ctx context.Context, content string) (string, error)
	Tags(ctx context.Context, title, content string) ([]string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
