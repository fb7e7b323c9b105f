package probe

import "fmt"

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index int
	Codec string
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index     int
	Codec     string
	Title     string
	IsDefault bool
}

// Result is the fully parsed output of a single ffprobe JSON call.
type Result struct {
	FormatName   string
	Duration     float64
	Size         int64
	VideoStreams []VideoStream
	AudioStreams []AudioStream
}

// CheckMergeLayout verifies the stream layout a merge is contracted to
// produce: at least one video stream, exactly two audio streams, where the
// first carries the default disposition and the second does not. A non-nil
// error describes the first violation found.
func (r *Result) CheckMergeLayout() error {
	if len(r.VideoStreams) == 0 {
		return fmt.Errorf("output has no video stream")
	}
	if n := len(r.AudioStreams); n != 2 {
		return fmt.Errorf("output has %d audio streams, want 2", n)
	}
	if !r.AudioStreams[0].IsDefault {
		return fmt.Errorf("first audio stream is not marked default")
	}
	if r.AudioStreams[1].IsDefault {
		return fmt.Errorf("second audio stream is marked default")
	}
	return nil
}
