package pipeline

import "github.com/Pixelaters/merge-replays/internal/scan"

// Observer receives run progress from the core so a presentation layer
// (CLI, GUI, tests) can render it without the pipeline holding any UI
// state. All callbacks fire on the pipeline goroutine, in order: one
// OnRunStart, then OnPairStart/OnPairDone per pair, then one OnRunDone.
// A nil Observer is valid and means no events are emitted.
type Observer interface {
	// OnRunStart fires after scanning, before the first pair is processed.
	OnRunStart(total int, unmatched []scan.Unmatched)
	// OnPairStart fires when a pair transitions Pending → Running.
	OnPairStart(idx, total int, pair scan.Pair)
	// OnPairDone fires with the pair's terminal MergeResult.
	OnPairDone(idx, total int, res MergeResult)
	// OnRunDone fires once with the final aggregate stats.
	OnRunDone(stats RunStats)
}

// notify* helpers keep nil checks out of the runner body.

func notifyRunStart(obs Observer, total int, unmatched []scan.Unmatched) {
	if obs != nil {
		obs.OnRunStart(total, unmatched)
	}
}

func notifyPairStart(obs Observer, idx, total int, pair scan.Pair) {
	if obs != nil {
		obs.OnPairStart(idx, total, pair)
	}
}

func notifyPairDone(obs Observer, idx, total int, res MergeResult) {
	if obs != nil {
		obs.OnPairDone(idx, total, res)
	}
}

func notifyRunDone(obs Observer, stats RunStats) {
	if obs != nil {
		obs.OnRunDone(stats)
	}
}
