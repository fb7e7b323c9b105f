// Command mergereplays is the CLI entrypoint for the MergeReplays
// MP4/M4A combiner.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the scan/merge pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Pixelaters/merge-replays/internal/check"
	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/display"
	"github.com/Pixelaters/merge-replays/internal/logging"
	"github.com/Pixelaters/merge-replays/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	config.LoadSettings(&cfg)
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "mergereplays: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mergereplays: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mergereplays: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: source must exist, destination is created
	// if needed, and the two must differ (outputs share the video extension).
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		log.Error("Cannot create destination directory: %s", cfg.DestDir)
		return 1
	}
	destAbs, err := absPath(cfg.DestDir)
	if err != nil {
		log.Error("Cannot resolve destination path: %s", cfg.DestDir)
		return 1
	}
	if err := cfg.ValidatePaths(sourceAbs, destAbs); err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== MergeReplays v%s (%s) ===", version, commit)
	log.Info("Source: %s", cfg.SourceDir)
	log.Info("Dest:   %s", cfg.DestDir)
	if cfg.DeleteOriginals {
		log.Warn("Originals will be deleted after each verified merge")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written or deleted")
	}
	log.Info("")

	// Fail fast if ffmpeg (and ffprobe, when verifying) are unavailable.
	// A missing tool means no pair can be processed, so it is reported
	// once and the run never starts.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Remember the chosen folders and options for the next run, like the
	// legacy GUI did with its config.json.
	if cfg.SaveSettings {
		if err := config.SaveSettings(&cfg); err != nil {
			log.Warn("Could not save settings: %v", err)
		}
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between pairs; an in-flight ffmpeg process is
	// opaque and runs to completion.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current pair…")
		cancel()
	}()

	// Phase 4: Run pipeline (scan → merge each pair → summary).
	stats := pipeline.Run(ctx, &cfg, log, nil)

	if stats.Aborted || stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of source vs destination directories.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
