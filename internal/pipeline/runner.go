// Package pipeline orchestrates pair scanning, per-pair merging, source
// deletion, and run summary reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/display"
	"github.com/Pixelaters/merge-replays/internal/ffmpeg"
	"github.com/Pixelaters/merge-replays/internal/logging"
	"github.com/Pixelaters/merge-replays/internal/planner"
	"github.com/Pixelaters/merge-replays/internal/probe"
	"github.com/Pixelaters/merge-replays/internal/scan"
)

// ErrDestNotWritable is returned via stats.Aborted when the destination
// directory rejects a test write before any pair is attempted.
var ErrDestNotWritable = errors.New("destination directory is not writable")

// Run is the top-level entry point. It scans the source directory, reports
// unmatched files, processes each pair sequentially in scan order, and
// returns aggregate stats. Cancelling ctx stops the run between pairs; a
// merge already handed to ffmpeg runs to completion or failure.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, obs Observer) RunStats {
	var stats RunStats

	res, err := scan.Scan(cfg.SourceDir, cfg.VideoExt, cfg.AudioExt)
	if err != nil {
		log.Error("Scan failed: %v", err)
		stats.Aborted = true
		return stats
	}

	stats.Total = len(res.Pairs)
	stats.Unmatched = len(res.Unmatched)

	logScanReport(cfg, log, res)
	notifyRunStart(obs, stats.Total, res.Unmatched)

	if len(res.Pairs) == 0 {
		log.Warn("No matching %s/%s pairs found in %s",
			cfg.VideoExt, cfg.AudioExt, cfg.SourceDir)
		notifyRunDone(obs, stats)
		return stats
	}

	if !cfg.DryRun {
		if err := checkDestWritable(cfg.DestDir); err != nil {
			log.Error("%v", err)
			stats.Aborted = true
			notifyRunDone(obs, stats)
			return stats
		}
	}

	for i, pair := range res.Pairs {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted, %d pair(s) not processed", stats.Remaining())
			break
		}

		notifyPairStart(obs, stats.Current, stats.Total, pair)
		result := processPair(ctx, cfg, log, pair, &stats)
		notifyPairDone(obs, stats.Current, stats.Total, result)
	}

	logSummary(cfg, log, &stats)
	notifyRunDone(obs, stats)
	return stats
}

// processPair handles one pair: validate inputs → plan → execute → verify →
// delete originals. Failures are recorded in the returned MergeResult and
// never stop the surrounding loop.
func processPair(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	pair scan.Pair,
	stats *RunStats,
) MergeResult {
	plan := planner.BuildPlan(cfg, pair)
	result := MergeResult{
		Pair:       pair,
		State:      StateRunning,
		OutputPath: plan.OutputPath,
	}

	log.Info("[%d/%d] %s", stats.Current, stats.Total, pair.Base)

	// --- Validate inputs still exist (scan and merge are not atomic) ---
	inBytes, err := sumSizes(pair.VideoPath, pair.AudioPath)
	if err != nil {
		return failPair(log, stats, result, fmt.Sprintf("input vanished before merge: %v", err))
	}

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would merge -> %s", filepath.Base(plan.OutputPath))
		result.State = StateSucceeded
		stats.Merged++
		return result
	}

	// --- Execute (single attempt, no retries) ---
	start := time.Now()
	inv := ffmpeg.Execute(ctx, cfg, plan)
	result.Elapsed = time.Since(start)
	result.ExitCode = inv.ExitCode

	if inv.Err != nil {
		result.Diagnostic = inv.Stderr
		result.Hint = ffmpeg.Hint(inv.Stderr)
		log.Error("Merge failed (exit %d): %s", inv.ExitCode, pair.Base)
		if result.Hint != "" {
			log.Error("  Hint: %s", result.Hint)
		}
		logStderr(log, inv.Stderr)
		// Drop the partial output so a half-written file is never mistaken
		// for a merged replay.
		os.Remove(plan.OutputPath)
		result.State = StateFailed
		stats.Failed++
		return result
	}

	// --- Output sanity: present and non-empty ---
	outInfo, err := os.Stat(plan.OutputPath)
	if err != nil || outInfo.Size() == 0 {
		return failPair(log, stats, result, "ffmpeg reported success but the output file is missing or empty")
	}

	// --- Verify stream layout ---
	if cfg.VerifyOutputs {
		pr, err := probe.Probe(ctx, cfg.FFprobeBin, plan.OutputPath)
		if err == nil {
			err = pr.CheckMergeLayout()
		}
		if err != nil {
			// Keep the output on disk for inspection, but the pair does
			// not count as merged and the sources stay.
			log.Warn("  Output kept for inspection: %s", plan.OutputPath)
			return failPair(log, stats, result, fmt.Sprintf("output verification failed: %v", err))
		}
		log.Debug(cfg.Verbose, "  Verified: 2 audio streams, first default")
	}

	// --- Delete originals (only after a verified, non-empty output) ---
	if cfg.DeleteOriginals {
		deleteSources(log, pair, &result, stats)
	}

	// --- Update stats ---
	stats.TotalInputBytes += inBytes
	stats.TotalOutputBytes += outInfo.Size()
	stats.Merged++
	result.State = StateSucceeded

	log.Success("Merged in %s -> %s (%s)",
		display.FormatDuration(result.Elapsed),
		filepath.Base(plan.OutputPath),
		display.FormatBytes(outInfo.Size()))
	return result
}

// failPair records a local (non-ffmpeg) failure on the result and stats.
func failPair(log *logging.Logger, stats *RunStats, result MergeResult, reason string) MergeResult {
	log.Error("Merge failed: %s: %s", result.Pair.Base, reason)
	result.State = StateFailed
	result.Diagnostic = reason
	stats.Failed++
	return result
}

// deleteSources removes both source files after a successful merge.
// Failures become warnings on the result; the merge itself already
// succeeded, so they are never escalated.
func deleteSources(log *logging.Logger, pair scan.Pair, result *MergeResult, stats *RunStats) {
	for _, path := range []string{pair.VideoPath, pair.AudioPath} {
		if err := os.Remove(path); err != nil {
			w := fmt.Sprintf("could not delete %s: %v", filepath.Base(path), err)
			result.Warnings = append(result.Warnings, w)
			log.Warn("  %s", w)
			continue
		}
		stats.DeletedSources++
	}
	if len(result.Warnings) == 0 {
		log.Debug(true, "  Deleted originals")
	}
}

// checkDestWritable verifies the destination accepts writes by creating and
// removing a temp file. Run once per run, before the first pair.
func checkDestWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".mergereplays-*")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDestNotWritable, dir)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// sumSizes stats each path and returns the combined size.
func sumSizes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return 0, err
		}
		total += fi.Size()
	}
	return total, nil
}

// logStderr prints the tail of ffmpeg's captured stderr as the failure
// diagnostic.
func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logScanReport(cfg *config.Config, log *logging.Logger, res *scan.Result) {
	log.Info("Found %d pair(s), %d unmatched file(s)", len(res.Pairs), len(res.Unmatched))
	for _, u := range res.Unmatched {
		log.Warn("Unmatched: %s (no %s counterpart)", filepath.Base(u.Path), otherExt(cfg, u.Path))
	}
	if len(res.Pairs) > 0 {
		fmt.Println()
	}
}

// otherExt names the extension a lone file was missing its counterpart in.
func otherExt(cfg *config.Config, path string) string {
	if strings.EqualFold(filepath.Ext(path), cfg.VideoExt) {
		return cfg.AudioExt
	}
	return cfg.VideoExt
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	fmt.Println()
	log.Info("==============================")
	log.Info("Done: %d merged, %d failed, %d unmatched", stats.Merged, stats.Failed, stats.Unmatched)
	if cfg.DeleteOriginals && !cfg.DryRun {
		log.Info("  Source files deleted: %d", stats.DeletedSources)
	}
	if cfg.DryRun {
		log.Info("  Output written: n/a (dry run)")
		return
	}
	if stats.Merged > 0 {
		log.Success("  Output written: %s (from %s of input)",
			display.FormatBytes(stats.TotalOutputBytes),
			display.FormatBytes(stats.TotalInputBytes))
	}
}
