package testsuite

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// ErrNoSamples is returned when statistics are requested for an empty sample set
var ErrNoSamples = errors.New("no samples")

// DefaultScoreDiffPercent is the allowed deviation of a benchmark score from its baseline
const DefaultScoreDiffPercent = 15.0

// CSVHeader names the columns written by WriteCSV
var CSVHeader = []string{"test name", "max", "min", "median", "median abs dev", "mean", "std dev", "no. of samples"}

// Statistics summarizes a set of benchmark samples
type Statistics struct {
	Max          float64
	Min          float64
	Median       float64
	MedianAbsDev float64
	Mean         float64
	StdDev       float64 // Population standard deviation
	Samples      int
}

// ComputeStatistics summarizes samples. The input slice is not modified.
func ComputeStatistics(samples []float64) (Statistics, error) {
	if len(samples) == 0 {
		return Statistics{}, ErrNoSamples
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}
	mean := sum / float64(len(sorted))

	mid := median(sorted)
	var sq float64
	deviations := make([]float64, len(sorted))
	for i, s := range sorted {
		sq += (s - mean) * (s - mean)
		deviations[i] = math.Abs(s - mid)
	}
	sort.Float64s(deviations)

	return Statistics{
		Max:          sorted[len(sorted)-1],
		Min:          sorted[0],
		Median:       mid,
		MedianAbsDev: median(deviations),
		Mean:         mean,
		StdDev:       math.Sqrt(sq / float64(len(sorted))),
		Samples:      len(sorted),
	}, nil
}

// median of an already sorted, non-empty slice
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ScoreRegressed compares a benchmark score against its baseline. The score regressed when
// the ratio current/baseline leaves [1-percent/100, 1+percent/100]. A zero on either side
// falls back to an absolute tolerance of 1.
func ScoreRegressed(baseline, current, percent float64) (bool, float64) {
	if baseline == 0 || current == 0 {
		return math.Abs(current-baseline) > 1, 0
	}
	ratio := current / baseline
	return ratio > 1+percent/100 || ratio < 1-percent/100, ratio
}

// Row formats stats as a CSV row under name
func (s Statistics) Row(name string) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	return []string{name, f(s.Max), f(s.Min), f(s.Median), f(s.MedianAbsDev), f(s.Mean), f(s.StdDev), strconv.Itoa(s.Samples)}
}

// Result is one named benchmark outcome
type Result struct {
	Name  string
	Stats Statistics
}

// WriteCSV writes results with a CSVHeader row
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(r.Stats.Row(r.Name)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadBaseline reads the mean score of every test from a CSV written by WriteCSV
func ReadBaseline(r io.Reader) (map[string]float64, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	scores := make(map[string]float64)
	const meanColumn = 5
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) <= meanColumn {
			return nil, fmt.Errorf("baseline row %d: expected %d columns, got %d", i+1, len(CSVHeader), len(row))
		}
		mean, err := strconv.ParseFloat(row[meanColumn], 64)
		if err != nil {
			return nil, fmt.Errorf("baseline row %d: %w", i+1, err)
		}
		scores[row[0]] = mean
	}
	return scores, nil
}
