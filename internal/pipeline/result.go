package pipeline

import (
	"time"

	"github.com/Pixelaters/merge-replays/internal/scan"
)

// State is the per-pair lifecycle. Every pair moves Pending → Running and
// ends in exactly one of Succeeded or Failed; there are no retries, so the
// transition happens at most once per run.
type State int

const (
	StatePending State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// MergeResult is the terminal record for one pair. It exists for reporting
// only and is not persisted anywhere.
type MergeResult struct {
	Pair       scan.Pair
	State      State  // StateSucceeded or StateFailed.
	OutputPath string // Computed output path; set even when the merge failed.
	ExitCode   int    // ffmpeg exit status; 0 on success.
	Diagnostic string // Captured ffmpeg stderr, or a local failure reason.
	Hint       string // Optional classified explanation of the diagnostic.
	Warnings   []string
	Elapsed    time.Duration
}

// Failed reports whether the pair ended in StateFailed.
func (r *MergeResult) Failed() bool { return r.State == StateFailed }
