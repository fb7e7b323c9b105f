package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Pixelaters/merge-replays/internal/config"
	"github.com/Pixelaters/merge-replays/internal/logging"
	"github.com/Pixelaters/merge-replays/internal/scan"
)

// fakeFfmpeg mimics the merge invocation: it writes the output file (the
// last argument) and exits 0, or fails with a recognizable stderr line when
// the output name contains "FAILME".
const fakeFfmpeg = `#!/bin/sh
for arg; do out="$arg"; done
case "$out" in
  *FAILME*)
    echo "FAILME.mp4: Invalid data found when processing input" >&2
    exit 1
    ;;
esac
printf 'merged-output-data' > "$out"
`

// fakeFfprobe reports the contracted layout: one video stream and two audio
// streams with the first marked default.
const fakeFfprobe = `#!/bin/sh
cat <<'EOF'
{"streams":[
 {"index":0,"codec_name":"h264","codec_type":"video","disposition":{"default":1}},
 {"index":1,"codec_name":"aac","codec_type":"audio","disposition":{"default":1}},
 {"index":2,"codec_name":"aac","codec_type":"audio","disposition":{"default":0}}
],"format":{"nb_streams":3,"format_name":"mov,mp4,m4a,3gp,3g2,mj2","duration":"1.0","size":"18"}}
EOF
`

// fakeFfprobeOneAudio reports a broken merge: only one audio stream landed.
const fakeFfprobeOneAudio = `#!/bin/sh
cat <<'EOF'
{"streams":[
 {"index":0,"codec_name":"h264","codec_type":"video","disposition":{"default":1}},
 {"index":1,"codec_name":"aac","codec_type":"audio","disposition":{"default":1}}
],"format":{"nb_streams":2,"format_name":"mov,mp4,m4a,3gp,3g2,mj2","duration":"1.0","size":"18"}}
EOF
`

func TestRun_MergesPairs(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	writePair(t, source, "alpha")
	writePair(t, source, "bravo")
	write(t, source, "lonely.mp4")

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Total != 2 || stats.Merged != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want Total=2 Merged=2 Failed=0", stats)
	}
	if stats.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", stats.Unmatched)
	}
	for _, base := range []string{"alpha", "bravo"} {
		out := filepath.Join(dest, base+".mp4")
		data, err := os.ReadFile(out)
		if err != nil {
			t.Errorf("missing output %s: %v", out, err)
			continue
		}
		if string(data) != "merged-output-data" {
			t.Errorf("output %s content = %q", out, data)
		}
		// Originals stay unless --delete-originals was given.
		mustExist(t, filepath.Join(source, base+".mp4"))
		mustExist(t, filepath.Join(source, base+".m4a"))
	}
}

func TestRun_DeleteOriginals(t *testing.T) {
	cfg, source, _ := setup(t, fakeFfmpeg, fakeFfprobe)
	cfg.DeleteOriginals = true
	writePair(t, source, "alpha")

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Merged != 1 {
		t.Fatalf("Merged = %d, want 1", stats.Merged)
	}
	if stats.DeletedSources != 2 {
		t.Errorf("DeletedSources = %d, want 2", stats.DeletedSources)
	}
	mustNotExist(t, filepath.Join(source, "alpha.mp4"))
	mustNotExist(t, filepath.Join(source, "alpha.m4a"))
}

// fakeFfmpegEatsAudio merges like fakeFfmpeg but removes the audio input
// while running, so the later source deletion finds it already gone.
const fakeFfmpegEatsAudio = `#!/bin/sh
for arg; do
  case "$arg" in
    *.m4a) rm -f "$arg" ;;
  esac
  out="$arg"
done
printf 'merged-output-data' > "$out"
`

func TestRun_DeletionFailureIsWarning(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpegEatsAudio, fakeFfprobe)
	cfg.DeleteOriginals = true
	writePair(t, source, "alpha")

	var rec recorder
	stats := Run(context.Background(), cfg, testLogger(t, cfg), &rec)

	// A source that cannot be deleted is a warning, never a failed merge.
	if stats.Merged != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want Merged=1 Failed=0", stats)
	}
	if stats.DeletedSources != 1 {
		t.Errorf("DeletedSources = %d, want 1", stats.DeletedSources)
	}
	mustExist(t, filepath.Join(dest, "alpha.mp4"))
	mustNotExist(t, filepath.Join(source, "alpha.mp4"))

	if len(rec.done) != 1 {
		t.Fatalf("got %d results, want 1", len(rec.done))
	}
	res := rec.done[0]
	if res.State != StateSucceeded {
		t.Errorf("State = %v, want %v", res.State, StateSucceeded)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "alpha.m4a") {
		t.Errorf("warning %q does not name the undeleted source", res.Warnings[0])
	}
}

func TestRun_UnwritableDestAborts(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	writePair(t, source, "alpha")

	if err := os.Chmod(dest, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dest, 0o755) })

	var rec recorder
	stats := Run(context.Background(), cfg, testLogger(t, cfg), &rec)

	if !stats.Aborted {
		t.Error("Aborted = false, want true")
	}
	if stats.Merged != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want no pair attempted", stats)
	}
	if len(rec.started) != 0 {
		t.Errorf("OnPairStart fired %d time(s), want 0", len(rec.started))
	}
	if rec.runDones != 1 {
		t.Errorf("OnRunDone fired %d time(s), want 1", rec.runDones)
	}
	mustExist(t, filepath.Join(source, "alpha.mp4"))
	mustExist(t, filepath.Join(source, "alpha.m4a"))
}

func TestRun_FailureDoesNotAbort(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	cfg.DeleteOriginals = true
	writePair(t, source, "alpha")
	writePair(t, source, "b-FAILME")
	writePair(t, source, "charlie")

	var rec recorder
	stats := Run(context.Background(), cfg, testLogger(t, cfg), &rec)

	if stats.Merged != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want Merged=2 Failed=1", stats)
	}

	// Pairs after the failure are still processed.
	mustExist(t, filepath.Join(dest, "alpha.mp4"))
	mustExist(t, filepath.Join(dest, "charlie.mp4"))
	mustNotExist(t, filepath.Join(dest, "b-FAILME.mp4"))

	// The failed pair keeps its sources even with --delete-originals.
	mustExist(t, filepath.Join(source, "b-FAILME.mp4"))
	mustExist(t, filepath.Join(source, "b-FAILME.m4a"))
	mustNotExist(t, filepath.Join(source, "alpha.mp4"))

	// The failing pair's result carries the diagnostic and exit code.
	var failed *MergeResult
	for i := range rec.done {
		if rec.done[i].Failed() {
			failed = &rec.done[i]
		}
	}
	if failed == nil {
		t.Fatal("no failed MergeResult recorded")
	}
	if failed.ExitCode != 1 {
		t.Errorf("failed ExitCode = %d, want 1", failed.ExitCode)
	}
	if !strings.Contains(failed.Diagnostic, "Invalid data") {
		t.Errorf("Diagnostic = %q, want captured stderr", failed.Diagnostic)
	}
	if !strings.Contains(failed.Hint, "corrupt") {
		t.Errorf("Hint = %q, want corruption hint", failed.Hint)
	}
}

func TestRun_OverwritesExistingOutput(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	writePair(t, source, "alpha")
	if err := os.WriteFile(filepath.Join(dest, "alpha.mp4"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Merged != 1 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want Merged=1 Failed=0", stats)
	}
	data, err := os.ReadFile(filepath.Join(dest, "alpha.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "merged-output-data" {
		t.Errorf("existing output not overwritten: %q", data)
	}
}

func TestRun_NoPairs(t *testing.T) {
	cfg, _, _ := setup(t, fakeFfmpeg, fakeFfprobe)

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Total != 0 || stats.Aborted {
		t.Errorf("stats = %+v, want Total=0 Aborted=false", stats)
	}
}

func TestRun_MissingSourceAborts(t *testing.T) {
	cfg, _, _ := setup(t, fakeFfmpeg, fakeFfprobe)
	cfg.SourceDir = filepath.Join(cfg.SourceDir, "does-not-exist")

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if !stats.Aborted {
		t.Errorf("stats = %+v, want Aborted=true", stats)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	cfg.DryRun = true
	cfg.DeleteOriginals = true
	writePair(t, source, "alpha")

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Merged != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want Merged=1 Failed=0", stats)
	}
	mustNotExist(t, filepath.Join(dest, "alpha.mp4"))
	mustExist(t, filepath.Join(source, "alpha.mp4"))
	mustExist(t, filepath.Join(source, "alpha.m4a"))
}

func TestRun_VerificationFailure(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobeOneAudio)
	cfg.DeleteOriginals = true
	writePair(t, source, "alpha")

	var rec recorder
	stats := Run(context.Background(), cfg, testLogger(t, cfg), &rec)

	if stats.Merged != 0 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want Merged=0 Failed=1", stats)
	}
	// Sources survive a verification failure; the suspect output is kept
	// for inspection.
	mustExist(t, filepath.Join(source, "alpha.mp4"))
	mustExist(t, filepath.Join(source, "alpha.m4a"))
	mustExist(t, filepath.Join(dest, "alpha.mp4"))

	if len(rec.done) != 1 || !rec.done[0].Failed() {
		t.Fatalf("recorded results = %+v, want single failure", rec.done)
	}
	if !strings.Contains(rec.done[0].Diagnostic, "verification failed") {
		t.Errorf("Diagnostic = %q, want verification failure", rec.done[0].Diagnostic)
	}
}

func TestRun_NoVerifySkipsFfprobe(t *testing.T) {
	// ffprobe stub that always fails; with --no-verify it must never run.
	cfg, source, _ := setup(t, fakeFfmpeg, "#!/bin/sh\nexit 1\n")
	cfg.VerifyOutputs = false
	writePair(t, source, "alpha")

	stats := Run(context.Background(), cfg, testLogger(t, cfg), nil)

	if stats.Merged != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want Merged=1 Failed=0", stats)
	}
}

func TestRun_ObserverEventOrder(t *testing.T) {
	cfg, source, _ := setup(t, fakeFfmpeg, fakeFfprobe)
	writePair(t, source, "alpha")
	writePair(t, source, "bravo")
	write(t, source, "lonely.m4a")

	var rec recorder
	Run(context.Background(), cfg, testLogger(t, cfg), &rec)

	if rec.runStarts != 1 || rec.runDones != 1 {
		t.Errorf("run events = %d starts, %d dones, want 1 each", rec.runStarts, rec.runDones)
	}
	if rec.startTotal != 2 {
		t.Errorf("OnRunStart total = %d, want 2", rec.startTotal)
	}
	if len(rec.startUnmatched) != 1 {
		t.Errorf("OnRunStart unmatched = %d, want 1", len(rec.startUnmatched))
	}
	if len(rec.started) != 2 || len(rec.done) != 2 {
		t.Fatalf("pair events = %d starts, %d dones, want 2 each", len(rec.started), len(rec.done))
	}
	// Scan order is lexicographic by base name.
	if rec.started[0].Base != "alpha" || rec.started[1].Base != "bravo" {
		t.Errorf("pair order = %q, %q", rec.started[0].Base, rec.started[1].Base)
	}
	for _, res := range rec.done {
		if res.State != StateSucceeded {
			t.Errorf("pair %s state = %v, want succeeded", res.Pair.Base, res.State)
		}
		if res.OutputPath == "" {
			t.Errorf("pair %s has no output path", res.Pair.Base)
		}
	}
}

func TestRun_CancelledContextStops(t *testing.T) {
	cfg, source, dest := setup(t, fakeFfmpeg, fakeFfprobe)
	writePair(t, source, "alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := Run(ctx, cfg, testLogger(t, cfg), nil)

	if stats.Merged != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want no pairs processed", stats)
	}
	mustNotExist(t, filepath.Join(dest, "alpha.mp4"))
}

// --- Helpers ---

// recorder implements Observer and captures every event for assertions.
type recorder struct {
	runStarts      int
	runDones       int
	startTotal     int
	startUnmatched []scan.Unmatched
	started        []scan.Pair
	done           []MergeResult
}

func (r *recorder) OnRunStart(total int, unmatched []scan.Unmatched) {
	r.runStarts++
	r.startTotal = total
	r.startUnmatched = unmatched
}

func (r *recorder) OnPairStart(idx, total int, pair scan.Pair) {
	r.started = append(r.started, pair)
}

func (r *recorder) OnPairDone(idx, total int, res MergeResult) {
	r.done = append(r.done, res)
}

func (r *recorder) OnRunDone(stats RunStats) { r.runDones++ }

// setup creates source/dest dirs and stub ffmpeg/ffprobe scripts, returning
// a ready-to-run config.
func setup(t *testing.T, ffmpegScript, ffprobeScript string) (*config.Config, string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool scripts need /bin/sh")
	}

	base := t.TempDir()
	source := filepath.Join(base, "source")
	dest := filepath.Join(base, "dest")
	for _, d := range []string{source, dest} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.SourceDir = source
	cfg.DestDir = dest
	cfg.ColorMode = config.ColorNever
	cfg.FFmpegBin = writeStub(t, base, "ffmpeg", ffmpegScript)
	cfg.FFprobeBin = writeStub(t, base, "ffprobe", ffprobeScript)
	return &cfg, source, dest
}

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func writePair(t *testing.T, dir, base string) {
	t.Helper()
	write(t, dir, base+".mp4")
	write(t, dir, base+".m4a")
}

func write(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("input-data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to be absent", path)
	}
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}
