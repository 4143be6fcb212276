package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"droneset/internal/clip"
	"droneset/internal/metadata"
	"droneset/internal/segment"
	"droneset/internal/session"
	"droneset/internal/source"
	"droneset/internal/timerange"
)

const videoURL = "https://youtu.be/vid1"

type scriptedLabeler struct {
	decide func(i int, c clip.Clip) (session.Decision, error)
	engine *session.Engine
	seen   []string
	states []session.State
}

func (l *scriptedLabeler) Label(_ context.Context, c clip.Clip) (session.Decision, error) {
	i := len(l.seen)
	l.seen = append(l.seen, c.Filename())
	if l.engine != nil {
		l.states = append(l.states, l.engine.State())
	}
	return l.decide(i, c)
}

func alternating(i int, _ clip.Clip) (session.Decision, error) {
	if i%2 == 0 {
		return session.DroneDecision(3), nil
	}
	return session.NoDroneDecision(metadata.SubtypeWind), nil
}

func allNoDrone(int, clip.Clip) (session.Decision, error) {
	return session.NoDroneDecision(metadata.SubtypeBirds), nil
}

type scriptedDriver struct {
	ranges   []timerange.TimeRange
	calls    int
	rejected []error
	engine   *session.Engine
	states   []session.State
	parts    [][]session.Part
}

func (d *scriptedDriver) NextRange(_ context.Context, _ int64, parts []session.Part) (timerange.TimeRange, bool, error) {
	d.parts = append(d.parts, parts)
	if d.engine != nil {
		d.states = append(d.states, d.engine.State())
	}
	if d.calls >= len(d.ranges) {
		return timerange.TimeRange{}, false, nil
	}
	r := d.ranges[d.calls]
	d.calls++
	return r, true, nil
}

func (d *scriptedDriver) RangeRejected(_ timerange.TimeRange, err error) {
	d.rejected = append(d.rejected, err)
}

type fixture struct {
	audio   string
	store   *metadata.Store
	engine  *session.Engine
	labeler *scriptedLabeler
	job     session.Job
}

func newFixture(t *testing.T, decide func(int, clip.Clip) (session.Decision, error)) *fixture {
	t.Helper()
	root := t.TempDir()
	audio := filepath.Join(root, "audio")
	store := metadata.NewStore(filepath.Join(root, "metadata.json"), nil)
	labeler := &scriptedLabeler{decide: decide}
	engine, err := session.New(session.Config{AudioDir: audio, Params: segment.DefaultParams()}, store, clip.NewExporter(nil), labeler, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	labeler.engine = engine

	src, err := source.Resolve(videoURL)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return &fixture{
		audio:   audio,
		store:   store,
		engine:  engine,
		labeler: labeler,
		job: session.Job{
			Source:   src,
			Naming:   src.Naming(audio, "4"),
			Waveform: &clip.Waveform{SampleRate: 1000, Samples: make([]float64, 10000)},
		},
	}
}

func listWAVs(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	sort.Strings(out)
	return out
}

func TestRunWholeLabelsAndAppends(t *testing.T) {
	f := newFixture(t, alternating)

	result, err := f.engine.RunWhole(context.Background(), f.job)
	if err != nil {
		t.Fatalf("RunWhole: %v", err)
	}
	if result.Skipped || len(result.Parts) != 1 || result.ClipCount() != 6 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := result.Parts[0].Range; got.Start() != 0 || got.End() != 10000 {
		t.Fatalf("whole range = %s", got)
	}
	if f.engine.State() != session.Done {
		t.Fatalf("state = %s, want done", f.engine.State())
	}
	for _, s := range f.labeler.states {
		if s != session.Labeling {
			t.Fatalf("labeler called in state %s", s)
		}
	}

	records := f.store.Load()
	if len(records) != 6 {
		t.Fatalf("expected 6 records, got %d", len(records))
	}
	if records[0].BinaryLabel != metadata.LabelDrone || *records[0].Quality != 3 || *records[0].MotorLabel != "4_motors" {
		t.Fatalf("unexpected drone record %+v", records[0])
	}
	if records[1].BinaryLabel != metadata.LabelNoDrone || *records[1].Subtype != metadata.SubtypeWind || records[1].Quality != nil {
		t.Fatalf("unexpected no-drone record %+v", records[1])
	}
	if records[0].Identifier() != videoURL || records[0].Duration != 2 {
		t.Fatalf("unexpected origin or duration %+v", records[0])
	}

	want := []string{
		filepath.Join("4_motors", "vid1_4_motors_000.wav"),
		filepath.Join("4_motors", "vid1_4_motors_002.wav"),
		filepath.Join("4_motors", "vid1_4_motors_004.wav"),
		filepath.Join("not_a_drone", "wind", "vid1_4_motors_001.wav"),
		filepath.Join("not_a_drone", "wind", "vid1_4_motors_003.wav"),
		filepath.Join("not_a_drone", "wind", "vid1_4_motors_005.wav"),
	}
	got := listWAVs(t, f.audio)
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("files = %v, want %v", got, want)
		}
	}
}

func TestRunWholeSkipsProcessedSourceUnlessReprocess(t *testing.T) {
	f := newFixture(t, alternating)
	if _, err := f.engine.RunWhole(context.Background(), f.job); err != nil {
		t.Fatalf("first run: %v", err)
	}

	f.labeler.seen = nil
	result, err := f.engine.RunWhole(context.Background(), f.job)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !result.Skipped || len(f.labeler.seen) != 0 {
		t.Fatalf("expected skip without labeling, got %+v", result)
	}
	if n := len(f.store.Load()); n != 6 {
		t.Fatalf("store changed on skip: %d records", n)
	}

	f.job.Reprocess = true
	result, err = f.engine.RunWhole(context.Background(), f.job)
	if err != nil {
		t.Fatalf("reprocess: %v", err)
	}
	if result.Cleared == nil || result.Cleared.RecordsRemoved != 6 || len(result.Cleared.FilesRemoved) != 6 {
		t.Fatalf("unexpected cleanup %+v", result.Cleared)
	}
	if n := len(f.store.Load()); n != 6 {
		t.Fatalf("expected 6 records after reprocess, got %d", n)
	}
	if f.labeler.seen[0] != "vid1_4_motors_000.wav" {
		t.Fatalf("numbering should restart after clearing, got %s", f.labeler.seen[0])
	}
}

func TestRunRangesRejectsOverlapAndContinuesNumbering(t *testing.T) {
	f := newFixture(t, allNoDrone)
	driver := &scriptedDriver{
		engine: f.engine,
		ranges: []timerange.TimeRange{
			timerange.MustNew(0, 4000),
			timerange.MustNew(2000, 6000),
			timerange.MustNew(4000, 8000),
		},
	}

	result, err := f.engine.RunRanges(context.Background(), f.job, driver)
	if err != nil {
		t.Fatalf("RunRanges: %v", err)
	}
	if len(driver.rejected) != 1 || !errors.Is(driver.rejected[0], timerange.ErrOverlappingRange) {
		t.Fatalf("expected one overlap rejection, got %v", driver.rejected)
	}
	if len(result.Parts) != 2 || result.Parts[0].ClipCount != 2 || result.Parts[1].ClipCount != 2 {
		t.Fatalf("unexpected parts %+v", result.Parts)
	}
	for _, s := range driver.states {
		if s != session.AwaitingRange {
			t.Fatalf("driver asked in state %s", s)
		}
	}
	if len(driver.parts) != 4 || len(driver.parts[3]) != 2 {
		t.Fatalf("driver should see completed parts, got %v", driver.parts)
	}

	wantSeen := []string{"vid1_4_motors_000.wav", "vid1_4_motors_001.wav", "vid1_4_motors_002.wav", "vid1_4_motors_003.wav"}
	if len(f.labeler.seen) != len(wantSeen) {
		t.Fatalf("labeled %v, want %v", f.labeler.seen, wantSeen)
	}
	for i := range wantSeen {
		if f.labeler.seen[i] != wantSeen[i] {
			t.Fatalf("labeled %v, want %v", f.labeler.seen, wantSeen)
		}
	}
	if f.engine.State() != session.Done {
		t.Fatalf("state = %s", f.engine.State())
	}
	if n := len(f.store.Load()); n != 4 {
		t.Fatalf("expected 4 records, got %d", n)
	}
}

func TestRunRangesStopsAtEndOfSource(t *testing.T) {
	f := newFixture(t, alternating)
	open, err := timerange.Open(6000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	driver := &scriptedDriver{ranges: []timerange.TimeRange{open, timerange.MustNew(0, 2000)}}

	result, err := f.engine.RunRanges(context.Background(), f.job, driver)
	if err != nil {
		t.Fatalf("RunRanges: %v", err)
	}
	if driver.calls != 1 {
		t.Fatalf("driver should not be asked again after the end, calls=%d", driver.calls)
	}
	if len(result.Parts) != 1 || result.Parts[0].Range.End() != 10000 || result.Parts[0].ClipCount != 2 {
		t.Fatalf("unexpected parts %+v", result.Parts)
	}
}

func TestRunRangesRejectsRangePastEnd(t *testing.T) {
	f := newFixture(t, alternating)
	driver := &scriptedDriver{ranges: []timerange.TimeRange{timerange.MustNew(12000, 14000)}}

	result, err := f.engine.RunRanges(context.Background(), f.job, driver)
	if err != nil {
		t.Fatalf("RunRanges: %v", err)
	}
	if len(result.Parts) != 0 || len(driver.rejected) != 1 || !errors.Is(driver.rejected[0], session.ErrRangeOutsideSource) {
		t.Fatalf("unexpected result %+v rejected %v", result, driver.rejected)
	}
}

func TestRunRangesAllowsProcessedSource(t *testing.T) {
	f := newFixture(t, alternating)
	if _, err := f.engine.RunWhole(context.Background(), f.job); err != nil {
		t.Fatalf("RunWhole: %v", err)
	}
	f.labeler.seen = nil
	driver := &scriptedDriver{ranges: []timerange.TimeRange{timerange.MustNew(0, 2000)}}

	if _, err := f.engine.RunRanges(context.Background(), f.job, driver); err != nil {
		t.Fatalf("RunRanges: %v", err)
	}
	if len(f.labeler.seen) != 1 || f.labeler.seen[0] != "vid1_4_motors_006.wav" {
		t.Fatalf("expected numbering to continue at 006, got %v", f.labeler.seen)
	}
	if n := len(f.store.Load()); n != 7 {
		t.Fatalf("expected 7 records, got %d", n)
	}
}

func TestLabelFailureLeavesNoTrace(t *testing.T) {
	boom := errors.New("operator quit")
	f := newFixture(t, func(i int, c clip.Clip) (session.Decision, error) {
		if i == 3 {
			return session.Decision{}, boom
		}
		return alternating(i, c)
	})

	_, err := f.engine.RunWhole(context.Background(), f.job)
	if !errors.Is(err, boom) {
		t.Fatalf("expected labeler error, got %v", err)
	}
	if n := len(f.store.Load()); n != 0 {
		t.Fatalf("no records should be appended, got %d", n)
	}
	if files := listWAVs(t, f.audio); len(files) != 0 {
		t.Fatalf("clips should be discarded, found %v", files)
	}
}

func TestInvalidDecisionIsRejected(t *testing.T) {
	f := newFixture(t, func(int, clip.Clip) (session.Decision, error) {
		return session.Decision{Drone: true, Quality: 7}, nil
	})
	_, err := f.engine.RunWhole(context.Background(), f.job)
	if !errors.Is(err, session.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
	if files := listWAVs(t, f.audio); len(files) != 0 {
		t.Fatalf("clips should be discarded, found %v", files)
	}
}

func TestDecisionValidate(t *testing.T) {
	valid := []session.Decision{
		session.DroneDecision(1),
		session.DroneDecision(5),
		session.NoDroneDecision(metadata.SubtypeCrowd),
	}
	for _, d := range valid {
		if err := d.Validate(); err != nil {
			t.Fatalf("%+v: unexpected error %v", d, err)
		}
	}
	invalid := []session.Decision{
		session.DroneDecision(0),
		{Drone: true, Quality: 3, Subtype: metadata.SubtypeWind},
		{Quality: 2, Subtype: metadata.SubtypeWind},
		session.NoDroneDecision("thunder"),
	}
	for _, d := range invalid {
		if err := d.Validate(); !errors.Is(err, session.ErrInvalidDecision) {
			t.Fatalf("%+v: expected ErrInvalidDecision, got %v", d, err)
		}
	}
}

func TestNewValidatesConfig(t *testing.T) {
	store := metadata.NewStore(filepath.Join(t.TempDir(), "m.json"), nil)
	labeler := &scriptedLabeler{decide: alternating}
	_, err := session.New(session.Config{AudioDir: t.TempDir(), Params: segment.Params{SegmentLengthMS: 1000, StepMS: 2000}}, store, clip.NewExporter(nil), labeler, nil)
	if err == nil {
		t.Fatal("expected step > segment to be rejected")
	}
	if _, err := session.New(session.Config{Params: segment.DefaultParams()}, store, clip.NewExporter(nil), labeler, nil); err == nil {
		t.Fatal("expected missing audio dir to be rejected")
	}
}
