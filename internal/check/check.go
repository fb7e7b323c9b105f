// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/Pixelaters/merge-replays/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
// A missing ffmpeg is fatal to the whole run: no pair can be processed.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH (needed for output verification; use --no-verify to skip)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability and
// versions of ffmpeg and ffprobe and runs a small mux smoke test.
// This is informational only — it does not stop on failure. Returns false
// when ffmpeg itself is unusable.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegBin)
	checkTool(log, "ffprobe", cfg.FFprobeBin)
	if ok {
		checkMuxSmoke(cfg, log)
	}
	return ok
}

// checkTool verifies a binary is resolvable and logs its version line.
func checkTool(log Logger, label, bin string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found (%s)", label, bin)
		return false
	}
	cmd := exec.Command(bin, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", label, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", label, firstLine)
	return true
}

// checkMuxSmoke writes a tiny synthetic file in the output container to a
// temp path to verify the muxer works. The file is removed afterwards.
func checkMuxSmoke(cfg *config.Config, log Logger) {
	log.Info("Testing %s muxer...", strings.TrimPrefix(cfg.OutputExt, "."))

	tmp, err := os.CreateTemp("", "mergereplays-check-*"+cfg.OutputExt)
	if err != nil {
		log.Warn("Could not create temp file for mux test: %v", err)
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if runSilent(cfg.FFmpegBin,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-y", tmp.Name(),
	) {
		log.Success("Mux test passed")
	} else {
		log.Error("Mux test failed for %s", cfg.OutputExt)
	}
}

// CheckDeps is the pre-run validation: ffmpeg must be resolvable, and
// ffprobe too when output verification is enabled. Returns a sentinel
// error on failure; the caller reports it once and aborts the run.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return ErrFfmpegNotFound
	}
	if cfg.VerifyOutputs && !cfg.DryRun {
		if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
			return ErrFfprobeNotFound
		}
	}
	return nil
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
