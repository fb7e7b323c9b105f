// Package planner turns a scanned pair into a MergePlan that the ffmpeg
// package consumes: stream maps, codec copies, track metadata, and
// dispositions for the two audio tracks.
package planner

import (
	"path/filepath"

	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/scan"
)

// MergePlan holds everything needed to build the ffmpeg argv for one pair.
// Option slices are kept separate (maps, codecs, metadata, dispositions) so
// tests can assert each concern independently.
type MergePlan struct {
	Pair       scan.Pair
	OutputPath string

	MapOpts         []string
	CodecOpts       []string
	MetadataOpts    []string
	DispositionOpts []string
}

// BuildPlan computes the merge plan for one pair. The stream layout is
// fixed: video stream 0 and audio stream 0 from the video file, audio
// stream 0 from the companion file, all copied without re-encoding.
func BuildPlan(cfg *config.Config, pair scan.Pair) *MergePlan {
	p := &MergePlan{
		Pair:       pair,
		OutputPath: OutputPath(cfg.DestDir, pair.Base, cfg.OutputExt),
		MapOpts: []string{
			"-map", "0:v:0",
			"-map", "0:a:0",
			"-map", "1:a:0",
		},
		CodecOpts: []string{
			"-c:v", "copy",
			"-c:a", "copy",
		},
		DispositionOpts: BuildDispositions(),
	}

	if cfg.PrimaryTitle != "" {
		p.MetadataOpts = append(p.MetadataOpts, "-metadata:s:a:0", "title="+cfg.PrimaryTitle)
	}
	if cfg.SecondaryTitle != "" {
		p.MetadataOpts = append(p.MetadataOpts, "-metadata:s:a:1", "title="+cfg.SecondaryTitle)
	}
	return p
}

// OutputPath returns {destDir}/{base}{ext}. Collisions with an existing
// file are intentionally not resolved here; the merge overwrites silently.
func OutputPath(destDir, base, ext string) string {
	return filepath.Join(destDir, base+ext)
}
