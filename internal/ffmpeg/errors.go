package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output into
// troubleshooting hints. Checked in order by [Hint]; the first match wins.
// These are informational only — a failed pair is never retried.
var (
	reNoMatchingStream = regexp.MustCompile(
		`Stream map '.*' matches no streams|` +
			`does not contain any stream`)

	reMissingInput = regexp.MustCompile(
		`(?i)No such file or directory`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied`)

	reCodecContainer = regexp.MustCompile(
		`(?i)Could not find tag for codec .* in stream|` +
			`codec not currently supported in container|` +
			`Could not write header`)

	reCorruptInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`moov atom not found`)
)

// Hint returns a one-line explanation for common merge failures, derived
// from the captured stderr, or "" when nothing recognizable matched. The
// raw stderr remains the authoritative diagnostic.
func Hint(stderr string) string {
	switch {
	case reNoMatchingStream.MatchString(stderr):
		return "one of the inputs is missing the expected video or audio stream"
	case reCorruptInput.MatchString(stderr):
		return "an input file appears corrupt or truncated"
	case reCodecContainer.MatchString(stderr):
		return "a source codec cannot be stored in the output container"
	case rePermission.MatchString(stderr):
		return "permission denied writing the output file"
	case reMissingInput.MatchString(stderr):
		return "an input file disappeared before ffmpeg could read it"
	default:
		return ""
	}
}
