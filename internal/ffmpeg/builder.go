// Package ffmpeg builds and executes the per-pair ffmpeg merge command and
// classifies its stderr output into troubleshooting hints.
package ffmpeg

import (
	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/planner"
)

// Build constructs the complete ffmpeg argument slice (including the binary
// as args[0]) for one merge plan. The command copies the video stream and
// both audio streams bit-for-bit; -y overwrites an existing output without
// prompting.
func Build(cfg *config.Config, plan *planner.MergePlan) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, cfg.FFmpegBin, "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Inputs: 0 = video file, 1 = companion audio file ---
	args = append(args, "-i", plan.Pair.VideoPath, "-i", plan.Pair.AudioPath)

	// --- Stream maps ---
	args = append(args, plan.MapOpts...)

	// --- Codec copies (no transcoding) ---
	args = append(args, plan.CodecOpts...)

	// --- Track titles ---
	args = append(args, plan.MetadataOpts...)

	// --- Audio dispositions (first default, second not) ---
	args = append(args, plan.DispositionOpts...)

	// --- Output ---
	args = append(args, plan.OutputPath)

	return args
}
