package report_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"droneset/internal/metadata"
	"droneset/internal/report"
)

func fixtureRecords() []metadata.Record {
	remote := metadata.RemoteOrigin("https://youtu.be/vid")
	return []metadata.Record{
		metadata.NewDroneRecord("a_000.wav", "4_motors", 3, remote, 2),
		metadata.NewDroneRecord("a_001.wav", "4_motors", 5, remote, 2),
		metadata.NewDroneRecord("a_002.wav", "4_motors", 5, remote, 2),
		metadata.NewDroneRecord("b_000.wav", "2_motors", 1, metadata.LocalOrigin(), 2),
		metadata.NewNoDroneRecord("a_003.wav", metadata.SubtypeWind, remote, 2),
		metadata.NewNoDroneRecord("a_004.wav", metadata.SubtypeBirds, remote, 2),
		metadata.NewNoDroneRecord("a_005.wav", metadata.SubtypeWind, remote, 2),
	}
}

func TestSummarizeGroupsAndSorts(t *testing.T) {
	summary := report.Summarize(fixtureRecords())
	if summary.Total != 7 || summary.Empty() {
		t.Fatalf("unexpected total %d", summary.Total)
	}
	if len(summary.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %+v", summary.Groups)
	}

	want := []struct {
		binary, motor string
		total         int
	}{
		{"drone", "2_motors", 1},
		{"drone", "4_motors", 3},
		{"no_drone", "none", 3},
	}
	for i, w := range want {
		g := summary.Groups[i]
		if g.BinaryLabel != w.binary || g.MotorLabel != w.motor || g.Total != w.total {
			t.Fatalf("group %d: got %+v want %+v", i, g, w)
		}
	}

	four := summary.Groups[1]
	if four.Quality != [5]int{0, 0, 1, 0, 2} {
		t.Fatalf("unexpected quality buckets %v", four.Quality)
	}
	if math.Abs(four.MeanQuality-13.0/3.0) > 1e-9 {
		t.Fatalf("unexpected mean %v", four.MeanQuality)
	}
	if summary.Groups[2].MeanQuality != 0 {
		t.Fatalf("unscored group should have zero mean, got %v", summary.Groups[2].MeanQuality)
	}
	if summary.Subtypes[metadata.SubtypeWind] != 2 || summary.Subtypes[metadata.SubtypeBirds] != 1 {
		t.Fatalf("unexpected subtype counts %v", summary.Subtypes)
	}
}

func TestSummarizeDistributionCountsUnscoredAsZero(t *testing.T) {
	summary := report.Summarize(fixtureRecords())
	want := []report.QualityCount{
		{Quality: 0, Count: 3},
		{Quality: 1, Count: 1},
		{Quality: 3, Count: 1},
		{Quality: 5, Count: 2},
	}
	if len(summary.Distribution) != len(want) {
		t.Fatalf("got %+v want %+v", summary.Distribution, want)
	}
	for i := range want {
		if summary.Distribution[i] != want[i] {
			t.Fatalf("bucket %d: got %+v want %+v", i, summary.Distribution[i], want[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := report.Summarize(nil)
	if !summary.Empty() || len(summary.Groups) != 0 || len(summary.Distribution) != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dataset_summary.csv")
	if err := report.Summarize(fixtureRecords()).SaveCSV(path); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"binary_label,motor_label,total,q1,q2,q3,q4,q5",
		"drone,2_motors,1,1,0,0,0,0",
		"drone,4_motors,3,0,0,1,0,2",
		"no_drone,none,3,0,0,0,0,0",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected csv:\n%s", data)
	}
}
