package metrics

import (
	"sync"
	"time"
)

// Package metrics provides a minimal instrumentation interface with a no-op
// default and an optional Prometheus-backed implementation enabled via env.

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncRunTotal(mode string, success bool)
	ObserveRunSeconds(mode string, success bool, seconds float64)
	IncOracleCallTotal(kind string, success bool)
	ObserveOracleCallSeconds(kind string, success bool, seconds float64)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncRunTotal(string, bool)                       {}
func (n *noopRecorder) ObserveRunSeconds(string, bool, float64)        {}
func (n *noopRecorder) IncOracleCallTotal(string, bool)                {}
func (n *noopRecorder) ObserveOracleCallSeconds(string, bool, float64) {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeRun is a helper to time one analysis run.
func TimeRun(mode string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncRunTotal(mode, success)
		Default().ObserveRunSeconds(mode, success, dur)
	}
}

// TimeOracleCall is a helper to time one oracle invocation.
func TimeOracleCall(kind string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncOracleCallTotal(kind, success)
		Default().ObserveOracleCallSeconds(kind, success, dur)
	}
}
