package pipeline

// RunStats tracks aggregate counters and byte totals across a run.
type RunStats struct {
	Total          int // Pairs found by the scan.
	Current        int // 1-based index of the pair being (or last) processed.
	Merged         int
	Failed         int
	Unmatched      int // Files with a base name under only one extension.
	DeletedSources int // Source files removed after verified merges.
	Aborted        bool

	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Remaining returns how many scanned pairs were never attempted, which is
// non-zero only for aborted or interrupted runs.
func (s *RunStats) Remaining() int {
	return s.Total - s.Merged - s.Failed
}
