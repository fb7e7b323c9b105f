package check

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Pixelaters/merge-replays/internal/config"
)

func stubTool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool scripts need /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckDeps_FfmpegMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = filepath.Join(t.TempDir(), "no-such-ffmpeg")

	if err := CheckDeps(&cfg); !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("CheckDeps = %v, want ErrFfmpegNotFound", err)
	}
}

func TestCheckDeps_FfprobeMissingWithVerify(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = stubTool(t)
	cfg.FFprobeBin = filepath.Join(t.TempDir(), "no-such-ffprobe")
	cfg.VerifyOutputs = true

	if err := CheckDeps(&cfg); !errors.Is(err, ErrFfprobeNotFound) {
		t.Errorf("CheckDeps = %v, want ErrFfprobeNotFound", err)
	}
}

func TestCheckDeps_FfprobeOptionalWithoutVerify(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = stubTool(t)
	cfg.FFprobeBin = filepath.Join(t.TempDir(), "no-such-ffprobe")
	cfg.VerifyOutputs = false

	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps = %v, want nil when verification is off", err)
	}
}

func TestCheckDeps_DryRunSkipsFfprobe(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = stubTool(t)
	cfg.FFprobeBin = filepath.Join(t.TempDir(), "no-such-ffprobe")
	cfg.DryRun = true

	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps = %v, want nil in dry-run", err)
	}
}
