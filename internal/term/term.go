// Package term provides ANSI color state and terminal detection.
//
// Color codes are package-level variables so that logging and display can
// share one resolved state. [Configure] sets them once during startup; when
// colors are disabled every variable is the empty string and [Paint] returns
// its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/Pixelaters/merge-replays/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// Configure resolves the color mode and sets the package-level ANSI
// variables. Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	on := false
	switch mode {
	case config.ColorAlways:
		on = true
	case config.ColorNever:
		on = false
	default:
		on = stdoutWantsColor()
	}

	if !on {
		Red, Green, Yellow, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", ""
		return
	}
	Red = "\033[1;91m"
	Green = "\033[1;92m"
	Yellow = "\033[1;93m"
	Blue = "\033[1;94m"
	Cyan = "\033[1;96m"
	Magenta = "\033[1;95m"
	NC = "\033[0m"
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// Paint wraps s in the given color code and the reset sequence. With colors
// disabled it returns s unchanged.
func Paint(color, s string) string {
	if color == "" || NC == "" {
		return s
	}
	return color + s + NC
}

// stdoutWantsColor applies the ColorAuto rules: stdout must be a TTY, the
// NO_COLOR env var unset (https://no-color.org), and TERM not "dumb".
func stdoutWantsColor() bool {
	return IsTerminal(os.Stdout) &&
		os.Getenv("NO_COLOR") == "" &&
		!strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
