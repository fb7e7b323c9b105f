package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into pairing, merge, behavior, display, and utility.
// Negated flags (e.g. --no-verify) are applied after Parse so Config defaults
// (and values loaded from the settings file) hold unless the user passes the flag.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("mergereplays", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() and the settings file hold unless
	// the user passes the flag.
	var negated negatedFlags

	definePairingFlags(fs, cfg)
	defineMergeFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "mergereplays v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noVerify -> VerifyOutputs=false) or
// trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noVerify     bool
	noSaveConfig bool
	forceColor   bool
	noColor      bool
	showVersion  bool
	showHelp     bool
}

// definePairingFlags registers --video-ext and --audio-ext.
func definePairingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.VideoExt, "video-ext", cfg.VideoExt, "Video file extension to pair")
	fs.StringVar(&cfg.AudioExt, "audio-ext", cfg.AudioExt, "Audio file extension to pair")
}

// defineMergeFlags registers track titles and the ffmpeg/ffprobe binaries.
func defineMergeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.PrimaryTitle, "primary-title", cfg.PrimaryTitle, "Title tag for the video's own audio track")
	fs.StringVar(&cfg.SecondaryTitle, "secondary-title", cfg.SecondaryTitle, "Title tag for the companion audio track")
	fs.StringVar(&cfg.FFmpegBin, "ffmpeg", cfg.FFmpegBin, "ffmpeg binary (name or path)")
	fs.StringVar(&cfg.FFprobeBin, "ffprobe", cfg.FFprobeBin, "ffprobe binary (name or path)")
}

// defineBehaviorFlags registers delete-originals, dry-run, no-verify, no-save-config.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DeleteOriginals, "delete-originals", cfg.DeleteOriginals, "Delete both source files after a verified merge")
	fs.BoolVar(&cfg.DeleteOriginals, "x", cfg.DeleteOriginals, "Same as --delete-originals")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not run ffmpeg or delete files")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.noVerify, "no-verify", false, "Skip ffprobe verification of merged outputs")
	fs.BoolVar(&n.noSaveConfig, "no-save-config", false, "Do not persist folders and options to the settings file")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (includes live ffmpeg stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated flag values into cfg (e.g. noVerify -> VerifyOutputs=false).
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noVerify {
		cfg.VerifyOutputs = false
	}
	if n.noSaveConfig {
		cfg.SaveSettings = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets SourceDir and DestDir from the two positional args
// when not in CheckOnly mode. With zero positional args, folders previously
// loaded from the settings file are kept (mirroring how the legacy GUI
// pre-filled its folder fields); Validate rejects the run if they are empty.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 0:
		return nil
	case 2:
		cfg.SourceDir = NormalizeDirArg(args[0])
		cfg.DestDir = NormalizeDirArg(args[1])
		return nil
	default:
		return fmt.Errorf("need exactly source_dir and dest_dir (got %d args)", len(args))
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "MergeReplays v" + version + " — MP4/M4A dual-audio combiner"},
		{"", ""},
		{"  mergereplays [OPTIONS] <source_dir> <dest_dir>", ""},
		{"", ""},
		{"Pairing", ""},
		{"  --video-ext <ext>", "Video extension to pair (default: .mp4)"},
		{"  --audio-ext <ext>", "Audio extension to pair (default: .m4a)"},
		{"", ""},
		{"Merge", ""},
		{"  --primary-title <s>", "Title for the video's audio track (default: Game Audio)"},
		{"  --secondary-title <s>", "Title for the companion track (default: Microphone Track)"},
		{"  --ffmpeg <bin>", "ffmpeg binary (default: ffmpeg)"},
		{"  --ffprobe <bin>", "ffprobe binary used for verification (default: ffprobe)"},
		{"", ""},
		{"Behavior", ""},
		{"  -x, --delete-originals", "Delete both sources after a verified merge"},
		{"  -d, --dry-run", "Preview only; do not run ffmpeg or delete files"},
		{"  --no-verify", "Skip ffprobe verification of merged outputs"},
		{"  --no-save-config", "Do not persist folders/options to the settings file"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (live ffmpeg stderr)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, mux test)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
