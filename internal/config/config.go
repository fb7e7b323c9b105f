// Package config holds runtime configuration: defaults, CLI flag parsing,
// validation, and the persisted settings file carried over between runs.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally pre-filled from the settings file by [LoadSettings], and then
// mutated by [ParseFlags] before being passed (by pointer) to packages that
// need it. It is not mutated once a run starts.
type Config struct {
	// Paths (set from positional args or the settings file).
	SourceDir string
	DestDir   string

	// Pairing extensions (lowercase, with leading dot).
	VideoExt string // Default: ".mp4".
	AudioExt string // Default: ".m4a".

	// Output naming and track metadata.
	OutputExt      string // Default: ".mp4" (output keeps the video container).
	PrimaryTitle   string // Title tag for the video's own audio track.
	SecondaryTitle string // Title tag for the companion audio track.

	// Behavior flags.
	DeleteOriginals bool // Remove both sources after a verified merge.
	DryRun          bool
	VerifyOutputs   bool // Default: true. Cleared by --no-verify.
	SaveSettings    bool // Default: true. Cleared by --no-save-config.

	// External tools.
	FFmpegBin  string // Default: "ffmpeg". Resolved via PATH lookup.
	FFprobeBin string // Default: "ffprobe". Only needed when VerifyOutputs.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Settings file override (tests); empty means the default location.
	SettingsPath string
}

// DefaultConfig returns a Config with the defaults matching the legacy
// tkinter MergeReplays behavior (mp4+m4a in, mp4 out, track titles
// "Game Audio" / "Microphone Track", keep originals).
func DefaultConfig() Config {
	return Config{
		VideoExt:        ".mp4",
		AudioExt:        ".m4a",
		OutputExt:       ".mp4",
		PrimaryTitle:    "Game Audio",
		SecondaryTitle:  "Microphone Track",
		DeleteOriginals: false,
		DryRun:          false,
		VerifyOutputs:   true,
		SaveSettings:    true,
		FFmpegBin:       "ffmpeg",
		FFprobeBin:      "ffprobe",
		Verbose:         false,
		ColorMode:       ColorAuto,
		CheckOnly:       false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks extension and color fields and, when not in CheckOnly
// mode, requires that both source and destination paths are set.
func (c *Config) Validate() error {
	videoExt, err := normalizeExt(c.VideoExt, "video")
	if err != nil {
		return err
	}
	c.VideoExt = videoExt

	audioExt, err := normalizeExt(c.AudioExt, "audio")
	if err != nil {
		return err
	}
	c.AudioExt = audioExt

	outputExt, err := normalizeExt(c.OutputExt, "output")
	if err != nil {
		return err
	}
	c.OutputExt = outputExt

	if c.VideoExt == c.AudioExt {
		return fmt.Errorf("video and audio extensions must differ (both %q)", c.VideoExt)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.FFmpegBin == "" {
		return errors.New("ffmpeg binary name must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.DestDir == "" {
		return errors.New("need exactly source_dir and dest_dir")
	}
	return nil
}

// normalizeExt validates and canonicalizes a file extension.
// Accepted forms: "mp4", ".mp4", ".MP4". Output is lowercase with a leading dot.
func normalizeExt(raw, name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%s extension must not be empty", name)
	}
	if !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	if len(s) < 2 || strings.Contains(s[1:], ".") {
		return "", fmt.Errorf("invalid %s extension %q (use e.g. %q)", name, raw, ".mp4")
	}
	return s, nil
}

// ValidatePaths ensures the resolved destination directory is not the same
// as the resolved source directory. Outputs share the video extension, so a
// shared directory would overwrite sources and feed outputs back into the
// next scan. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, destAbs string) error {
	if sourceAbs == destAbs {
		return errors.New("destination directory must not be the source directory")
	}
	return nil
}
