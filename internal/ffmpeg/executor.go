package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/planner"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr   string
	ExitCode int // 0 on success; -1 when the process did not run or was killed.
	Err      error
}

// Execute builds and runs the ffmpeg command for one plan, blocking until
// the process exits. When verbose, stderr is tee'd to os.Stderr in real
// time; otherwise it is captured silently as the failure diagnostic.
//
// A cancelled ctx short-circuits before the process starts; once started,
// the merge always runs to completion or failure. Interruption is handled
// between pairs, never by killing a half-written output.
func Execute(ctx context.Context, cfg *config.Config, plan *planner.MergePlan) ExecResult {
	if err := ctx.Err(); err != nil {
		return ExecResult{ExitCode: -1, Err: err}
	}

	args := Build(cfg, plan)

	cmd := exec.Command(args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode(err),
		Err:      err,
	}
}

// exitCode extracts the process exit status from a Run error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
