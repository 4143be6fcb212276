package report

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"

	"droneset/internal/metadata"
)

// Quality scores run from 1 to 5; clips without a score count as 0.
const (
	MinQuality = 1
	MaxQuality = 5
)

const (
	missingBinaryLabel = "unknown"
	missingMotorLabel  = "none"
)

// Group summarizes the clips sharing a binary label and motor label.
type Group struct {
	BinaryLabel string
	MotorLabel  string
	Total       int
	// Quality[i] counts clips scored i+1.
	Quality [MaxQuality]int
	// MeanQuality averages the scored clips in the group, or 0 when none are
	// scored.
	MeanQuality float64
}

// QualityCount is one bucket of the global quality distribution.
type QualityCount struct {
	Quality int
	Count   int
}

// Summary is the full dataset report.
type Summary struct {
	Total        int
	Groups       []Group
	Distribution []QualityCount
	Subtypes     map[metadata.Subtype]int
}

// Empty reports whether the dataset has no records.
func (s Summary) Empty() bool {
	return s.Total == 0
}

// Summarize builds a report from records. Groups are sorted by binary label
// then motor label; the distribution lists only qualities that occur, in
// ascending order with unscored clips as quality 0.
func Summarize(records []metadata.Record) Summary {
	summary := Summary{
		Total:    len(records),
		Subtypes: map[metadata.Subtype]int{},
	}

	type key struct{ binary, motor string }
	groups := map[key]*Group{}
	scores := map[key][]float64{}
	distribution := map[int]int{}

	for _, record := range records {
		k := key{binary: binaryLabel(record), motor: motorLabel(record)}
		g, ok := groups[k]
		if !ok {
			g = &Group{BinaryLabel: k.binary, MotorLabel: k.motor}
			groups[k] = g
		}
		g.Total++

		q := quality(record)
		distribution[q]++
		if q >= MinQuality && q <= MaxQuality {
			g.Quality[q-1]++
			scores[k] = append(scores[k], float64(q))
		}
		if record.Subtype != nil {
			summary.Subtypes[*record.Subtype]++
		}
	}

	for k, g := range groups {
		if s := scores[k]; len(s) > 0 {
			g.MeanQuality = stat.Mean(s, nil)
		}
		summary.Groups = append(summary.Groups, *g)
	}
	slices.SortFunc(summary.Groups, func(a, b Group) int {
		return cmp.Or(cmp.Compare(a.BinaryLabel, b.BinaryLabel), cmp.Compare(a.MotorLabel, b.MotorLabel))
	})

	for q, n := range distribution {
		summary.Distribution = append(summary.Distribution, QualityCount{Quality: q, Count: n})
	}
	slices.SortFunc(summary.Distribution, func(a, b QualityCount) int {
		return cmp.Compare(a.Quality, b.Quality)
	})
	return summary
}

func binaryLabel(r metadata.Record) string {
	if r.BinaryLabel == "" {
		return missingBinaryLabel
	}
	return string(r.BinaryLabel)
}

func motorLabel(r metadata.Record) string {
	if r.MotorLabel == nil || *r.MotorLabel == "" {
		return missingMotorLabel
	}
	return *r.MotorLabel
}

func quality(r metadata.Record) int {
	if r.Quality == nil {
		return 0
	}
	return *r.Quality
}
