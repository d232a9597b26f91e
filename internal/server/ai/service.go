// Package ai implements the three note helpers served by the API:
// summaries, keyword tags and translations. Summaries and translations use
// a hosted chat model when one is configured; every helper has a local
// answer when it is not.
package ai

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/noteflow/internal/logging"
)

var (
	ErrContentRequired = errors.New("content is required")
	ErrTranslateArgs   = errors.New("text and target language are required")
)

// UpstreamError reports a failed call to the hosted model that has no
// local fallback.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Service struct {
	llm Completer
	log logging.Logger
	rec Recorder
}

// NewService builds the helpers. llm may be nil, in which case every
// operation answers locally.
func NewService(llm Completer, l logging.Logger, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{llm: llm, log: l.With("module", "ai"), rec: rec}
}
