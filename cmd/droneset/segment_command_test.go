package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"droneset/internal/metadata"
	"droneset/internal/source"
	"droneset/internal/testsupport"
)

func writeRecording(t *testing.T, env *cliTestEnv, name string, durationMS int64) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "recordings", name)
	testsupport.WriteWAV(t, path, testsupport.DefaultTone(durationMS))
	return path
}

func TestSegmentWholeLocalRecording(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := writeRecording(t, env, "field_rec.wav", 5000)

	answers := "y\n3\nn\nwind\ny\n5\n"
	out, _, err := runCLI(t, []string{"segment", recording, "--motors", "4", "--no-preview"}, env.configPath, answers)
	if err != nil {
		t.Fatalf("segment: %v\n%s", err, out)
	}
	requireContains(t, out, "Saved 3 clips")

	audio := env.cfg.AudioDir()
	requireExists(t, filepath.Join(audio, "4_motors", "field_rec_4_000.wav"))
	requireExists(t, filepath.Join(audio, "not_a_drone", "wind", "field_rec_4_001.wav"))
	requireExists(t, filepath.Join(audio, "4_motors", "field_rec_4_002.wav"))

	records := testsupport.NewStore(t, env.cfg).Load()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].BinaryLabel != metadata.LabelDrone || *records[0].Quality != 3 || *records[0].MotorLabel != "4_motors" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].BinaryLabel != metadata.LabelNoDrone || *records[1].Subtype != metadata.SubtypeWind {
		t.Fatalf("unexpected second record %+v", records[1])
	}
	if records[2].Source != metadata.SourceLocal || records[2].Duration != 2 {
		t.Fatalf("unexpected third record %+v", records[2])
	}
}

func TestSegmentPromptsForMotorCount(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := writeRecording(t, env, "hover.wav", 2000)

	out, _, err := runCLI(t, []string{"segment", recording, "--no-preview"}, env.configPath, "not sure\ny\n2\n")
	if err != nil {
		t.Fatalf("segment: %v\n%s", err, out)
	}
	requireContains(t, out, "Enter motor count")
	requireExists(t, filepath.Join(env.cfg.AudioDir(), "no_label", "hover_not_sure_000.wav"))

	records := testsupport.NewStore(t, env.cfg).Load()
	if len(records) != 1 || *records[0].MotorLabel != "unknown" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestSegmentRangesRejectsOverlap(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := writeRecording(t, env, "long.wav", 10000)

	var answers strings.Builder
	answers.WriteString("0\n0.05\n")
	answers.WriteString(strings.Repeat("y\n1\n", 3))
	answers.WriteString("y\n0.04\n\n")
	answers.WriteString("y\n0.05\n\n")
	answers.WriteString(strings.Repeat("n\nbirds\n", 3))

	out, _, err := runCLI(t, []string{"segment", recording, "--motors", "6", "--ranges", "--no-preview"}, env.configPath, answers.String())
	if err != nil {
		t.Fatalf("segment --ranges: %v\n%s", err, out)
	}
	requireContains(t, out, "rejected")
	requireContains(t, out, "Saved 6 clips")
	requireContains(t, out, "across 2 parts")

	birds := filepath.Join(env.cfg.AudioDir(), "not_a_drone", "birds")
	for _, name := range []string{"long_6_003.wav", "long_6_004.wav", "long_6_005.wav"} {
		requireExists(t, filepath.Join(birds, name))
	}
	if got := len(testsupport.NewStore(t, env.cfg).Load()); got != 6 {
		t.Fatalf("expected 6 records, got %d", got)
	}
}

func TestSegmentSkipsProcessedRemoteSource(t *testing.T) {
	env := setupCLITestEnv(t)
	url := "https://www.youtube.com/watch?v=abc123XYZ_0"
	testsupport.SeedRecords(t, env.cfg,
		metadata.NewDroneRecord("abc123XYZ_0_4_motors_000.wav", "4_motors", 4, metadata.RemoteOrigin(url), 2))

	out, _, err := runCLI(t, []string{"segment", url, "--motors", "4"}, env.configPath, "")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	requireContains(t, out, "already in the dataset (1 clips)")
}

func TestSegmentSkipsSourceSavedUnderAnotherURL(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedRecords(t, env.cfg,
		metadata.NewDroneRecord("abc123XYZ_0_4_motors_000.wav", "4_motors", 4, metadata.RemoteOrigin("https://youtu.be/abc123XYZ_0"), 2))

	out, _, err := runCLI(t, []string{"segment", "https://www.youtube.com/watch?v=abc123XYZ_0", "--motors", "4"}, env.configPath, "")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	requireContains(t, out, "already in the dataset (1 clips)")
}

func TestSegmentMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"segment", filepath.Join(env.baseDir, "absent.wav"), "--motors", "4"}, env.configPath, "")
	if !errors.Is(err, source.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
}

func TestSegmentRefusesWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	recording := writeRecording(t, env, "locked.wav", 2000)
	lock, err := metadata.AcquireWriterLock(env.cfg.LockPath())
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"segment", recording, "--motors", "4"}, env.configPath, "y\n3\n")
	if !errors.Is(err, metadata.ErrStoreLocked) {
		t.Fatalf("expected ErrStoreLocked, got %v", err)
	}
}
