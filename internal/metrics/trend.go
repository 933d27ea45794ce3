package metrics

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoData signals that a window contains no readings. Aggregates are never
// fabricated as zeros for an empty period.
var ErrNoData = errors.New("no data for this period")

// Period identifies a chart lookback window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Long-range trend thresholds, applied to the delta between the oldest and
// the latest reading in the six-month history.
const (
	weightTrendThresholdLbs   = 5.0
	systolicTrendThresholdMmg = 10
)

// Lookback returns the fixed duration covered by the period.
func (p Period) Lookback() (time.Duration, error) {
	switch p {
	case PeriodDay:
		return 24 * time.Hour, nil
	case PeriodWeek:
		return 7 * 24 * time.Hour, nil
	case PeriodMonth:
		return 30 * 24 * time.Hour, nil
	case PeriodYear:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown period %q", string(p))
	}
}

// WeightReading is a single timestamped weight measurement in pounds.
type WeightReading struct {
	Weight     float64   `json:"weight"`
	RecordedAt time.Time `json:"recorded_at"`
}

// BPReading is a single timestamped blood pressure measurement.
type BPReading struct {
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	Pulse      int       `json:"pulse"`
	RecordedAt time.Time `json:"recorded_at"`
}

// WeightStats summarizes a window of weight readings.
type WeightStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// BPStats summarizes a window of blood pressure readings. Averages are
// rounded to whole units for display.
type BPStats struct {
	AvgSystolic  int `json:"avg_systolic"`
	AvgDiastolic int `json:"avg_diastolic"`
	AvgPulse     int `json:"avg_pulse"`
	MaxSystolic  int `json:"max_systolic"`
	MinSystolic  int `json:"min_systolic"`
	Count        int `json:"count"`
}

// Trend is the two-point short-range trend between the latest and previous
// reading.
type Trend struct {
	Direction string  `json:"direction"` // up, down, stable
	Magnitude float64 `json:"magnitude"`
}

// WindowWeights returns the readings recorded within the period's lookback
// from now. Input must be ordered ascending by RecordedAt; order is
// preserved.
func WindowWeights(records []WeightReading, p Period, now time.Time) ([]WeightReading, error) {
	lookback, err := p.Lookback()
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-lookback)

	out := make([]WeightReading, 0, len(records))
	for _, r := range records {
		if !r.RecordedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

// WindowReadings is the blood pressure counterpart of WindowWeights.
func WindowReadings(records []BPReading, p Period, now time.Time) ([]BPReading, error) {
	lookback, err := p.Lookback()
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-lookback)

	out := make([]BPReading, 0, len(records))
	for _, r := range records {
		if !r.RecordedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SummarizeWeights computes display statistics for a weight window. The
// average keeps one decimal.
func SummarizeWeights(records []WeightReading) (WeightStats, error) {
	if len(records) == 0 {
		return WeightStats{}, ErrNoData
	}

	stats := WeightStats{Min: records[0].Weight, Max: records[0].Weight, Count: len(records)}
	var sum float64
	for _, r := range records {
		sum += r.Weight
		if r.Weight < stats.Min {
			stats.Min = r.Weight
		}
		if r.Weight > stats.Max {
			stats.Max = r.Weight
		}
	}
	stats.Avg = math.Round(sum/float64(len(records))*10) / 10
	return stats, nil
}

// SummarizeReadings computes display statistics for a blood pressure window.
func SummarizeReadings(records []BPReading) (BPStats, error) {
	if len(records) == 0 {
		return BPStats{}, ErrNoData
	}

	stats := BPStats{
		MaxSystolic: records[0].Systolic,
		MinSystolic: records[0].Systolic,
		Count:       len(records),
	}
	var sumSys, sumDia, sumPulse int
	for _, r := range records {
		sumSys += r.Systolic
		sumDia += r.Diastolic
		sumPulse += r.Pulse
		if r.Systolic > stats.MaxSystolic {
			stats.MaxSystolic = r.Systolic
		}
		if r.Systolic < stats.MinSystolic {
			stats.MinSystolic = r.Systolic
		}
	}
	n := float64(len(records))
	stats.AvgSystolic = int(math.Round(float64(sumSys) / n))
	stats.AvgDiastolic = int(math.Round(float64(sumDia) / n))
	stats.AvgPulse = int(math.Round(float64(sumPulse) / n))
	return stats, nil
}

// ComputeTrend compares the two most recent points of an ascending series.
// Fewer than two points means no movement.
func ComputeTrend(values []float64) Trend {
	if len(values) < 2 {
		return Trend{Direction: "stable", Magnitude: 0}
	}

	latest := values[len(values)-1]
	previous := values[len(values)-2]

	switch {
	case latest > previous:
		return Trend{Direction: "up", Magnitude: latest - previous}
	case latest < previous:
		return Trend{Direction: "down", Magnitude: previous - latest}
	default:
		return Trend{Direction: "stable", Magnitude: 0}
	}
}

// WeightTrendLabel compares the oldest and latest reading of the long-range
// history. The vocabulary (increasing/decreasing/stable) is part of the
// narrative contract.
func WeightTrendLabel(records []WeightReading) string {
	if len(records) < 2 {
		return "stable"
	}

	change := records[len(records)-1].Weight - records[0].Weight
	switch {
	case change > weightTrendThresholdLbs:
		return "increasing"
	case change < -weightTrendThresholdLbs:
		return "decreasing"
	default:
		return "stable"
	}
}

// BPTrendLabel compares oldest and latest systolic values of the long-range
// history. A falling systolic is labeled "improving", not "decreasing",
// because the label feeds the narrative and that is how the text reads.
func BPTrendLabel(records []BPReading) string {
	if len(records) < 2 {
		return "stable"
	}

	change := records[len(records)-1].Systolic - records[0].Systolic
	switch {
	case change > systolicTrendThresholdMmg:
		return "increasing"
	case change < -systolicTrendThresholdMmg:
		return "improving"
	default:
		return "stable"
	}
}
