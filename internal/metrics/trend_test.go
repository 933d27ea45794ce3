package metrics_test

import (
	"errors"
	"testing"
	"time"

	"VitalTrack_V1.0/internal/metrics"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time { return now.AddDate(0, 0, -d) }

func TestPeriodLookback(t *testing.T) {
	tests := []struct {
		period metrics.Period
		want   time.Duration
	}{
		{metrics.PeriodDay, 24 * time.Hour},
		{metrics.PeriodWeek, 7 * 24 * time.Hour},
		{metrics.PeriodMonth, 30 * 24 * time.Hour},
		{metrics.PeriodYear, 365 * 24 * time.Hour},
	}
	for _, tc := range tests {
		got, err := tc.period.Lookback()
		if err != nil {
			t.Fatalf("Lookback(%s): unexpected error: %v", tc.period, err)
		}
		if got != tc.want {
			t.Fatalf("Lookback(%s) = %v, want %v", tc.period, got, tc.want)
		}
	}

	if _, err := metrics.Period("fortnight").Lookback(); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestWindowWeights_WeekBoundary(t *testing.T) {
	records := []metrics.WeightReading{
		{Weight: 180, RecordedAt: daysAgo(8)}, // outside the 7-day window
		{Weight: 178, RecordedAt: daysAgo(6)},
		{Weight: 177, RecordedAt: daysAgo(1)},
	}

	got, err := metrics.WindowWeights(records, metrics.PeriodWeek, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings in window, got %d", len(got))
	}
	if got[0].Weight != 178 || got[1].Weight != 177 {
		t.Fatalf("window not in ascending order: %+v", got)
	}
}

func TestWindowReadings_PreservesOrder(t *testing.T) {
	records := []metrics.BPReading{
		{Systolic: 150, Diastolic: 95, Pulse: 80, RecordedAt: daysAgo(40)},
		{Systolic: 140, Diastolic: 90, Pulse: 78, RecordedAt: daysAgo(20)},
		{Systolic: 135, Diastolic: 85, Pulse: 75, RecordedAt: daysAgo(2)},
	}

	got, err := metrics.WindowReadings(records, metrics.PeriodMonth, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
	if got[0].Systolic != 140 || got[1].Systolic != 135 {
		t.Fatalf("unexpected window contents: %+v", got)
	}
}

func TestSummarizeWeights(t *testing.T) {
	records := []metrics.WeightReading{
		{Weight: 180.4, RecordedAt: daysAgo(3)},
		{Weight: 179.2, RecordedAt: daysAgo(2)},
		{Weight: 178.0, RecordedAt: daysAgo(1)},
	}

	stats, err := metrics.SummarizeWeights(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Avg != 179.2 {
		t.Fatalf("Avg = %.2f, want 179.2", stats.Avg)
	}
	if stats.Min != 178.0 || stats.Max != 180.4 {
		t.Fatalf("Min/Max = %.1f/%.1f, want 178.0/180.4", stats.Min, stats.Max)
	}
	if stats.Count != 3 {
		t.Fatalf("Count = %d, want 3", stats.Count)
	}
}

func TestSummarizeReadings(t *testing.T) {
	records := []metrics.BPReading{
		{Systolic: 150, Diastolic: 95, Pulse: 82, RecordedAt: daysAgo(3)},
		{Systolic: 145, Diastolic: 92, Pulse: 79, RecordedAt: daysAgo(2)},
		{Systolic: 139, Diastolic: 88, Pulse: 76, RecordedAt: daysAgo(1)},
	}

	stats, err := metrics.SummarizeReadings(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.AvgSystolic != 145 { // 434/3 = 144.67, rounds to 145
		t.Fatalf("AvgSystolic = %d, want 145", stats.AvgSystolic)
	}
	if stats.AvgDiastolic != 92 {
		t.Fatalf("AvgDiastolic = %d, want 92", stats.AvgDiastolic)
	}
	if stats.AvgPulse != 79 {
		t.Fatalf("AvgPulse = %d, want 79", stats.AvgPulse)
	}
	if stats.MaxSystolic != 150 || stats.MinSystolic != 139 {
		t.Fatalf("Max/MinSystolic = %d/%d, want 150/139", stats.MaxSystolic, stats.MinSystolic)
	}
}

func TestSummarize_EmptyWindow(t *testing.T) {
	if _, err := metrics.SummarizeWeights(nil); !errors.Is(err, metrics.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := metrics.SummarizeReadings(nil); !errors.Is(err, metrics.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		direction string
		magnitude float64
	}{
		{"up", []float64{100, 105}, "up", 5},
		{"down", []float64{105, 100}, "down", 5},
		{"flat", []float64{100, 100}, "stable", 0},
		{"single point", []float64{105}, "stable", 0},
		{"empty", nil, "stable", 0},
		{"uses last two", []float64{90, 100, 103}, "up", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := metrics.ComputeTrend(tc.values)
			if got.Direction != tc.direction || got.Magnitude != tc.magnitude {
				t.Fatalf("ComputeTrend(%v) = %+v, want {%s %v}", tc.values, got, tc.direction, tc.magnitude)
			}
		})
	}
}

func TestWeightTrendLabel(t *testing.T) {
	tests := []struct {
		name    string
		oldest  float64
		latest  float64
		want    string
		records int
	}{
		{"increasing", 170, 180, "increasing", 2},
		{"decreasing", 180, 170, "decreasing", 2},
		{"within threshold", 175, 179, "stable", 2},
		{"exactly threshold", 175, 180, "stable", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := []metrics.WeightReading{
				{Weight: tc.oldest, RecordedAt: daysAgo(90)},
				{Weight: tc.latest, RecordedAt: daysAgo(1)},
			}
			if got := metrics.WeightTrendLabel(records); got != tc.want {
				t.Fatalf("WeightTrendLabel = %q, want %q", got, tc.want)
			}
		})
	}

	if got := metrics.WeightTrendLabel([]metrics.WeightReading{{Weight: 180}}); got != "stable" {
		t.Fatalf("single record should be stable, got %q", got)
	}
}

func TestBPTrendLabel(t *testing.T) {
	tests := []struct {
		name   string
		oldest int
		latest int
		want   string
	}{
		{"increasing", 130, 145, "increasing"},
		{"improving", 150, 135, "improving"},
		{"within threshold", 140, 145, "stable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := []metrics.BPReading{
				{Systolic: tc.oldest, Diastolic: 85, Pulse: 75, RecordedAt: daysAgo(90)},
				{Systolic: tc.latest, Diastolic: 85, Pulse: 75, RecordedAt: daysAgo(1)},
			}
			if got := metrics.BPTrendLabel(records); got != tc.want {
				t.Fatalf("BPTrendLabel = %q, want %q", got, tc.want)
			}
		})
	}
}
