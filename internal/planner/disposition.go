package planner

// BuildDispositions produces the ffmpeg -disposition flags that mark the
// first output audio stream (the video's own audio) as default and clear
// default on the second (the companion track). Players then pick the game
// audio unless the user switches tracks.
func BuildDispositions() []string {
	return []string{
		"-disposition:a:0", "default",
		"-disposition:a:1", "none",
	}
}
