package ai

import "time"

// Recorder receives upstream and fallback observations; metrics.Metrics
// satisfies it.
type Recorder interface {
	ObserveUpstream(op, outcome string, d time.Duration)
	ObserveFallback(op string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstream(string, string, time.Duration) {}
func (nopRecorder) ObserveFallback(string)                        {}
