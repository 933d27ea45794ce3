package metrics_test

import (
	"testing"

	"VitalTrack_V1.0/internal/metrics"
)

func TestAssessRisk_Levels(t *testing.T) {
	tests := []struct {
		name      string
		bmi       float64
		systolic  int
		diastolic int
		want      string
	}{
		{"all healthy", 22, 110, 70, "Low"},
		{"overweight only", 26, 110, 70, "Moderate"},
		{"stage 1 only", 22, 132, 78, "Moderate"},
		{"obese plus stage 1", 31, 132, 78, "High"},
		{"overweight plus stage 2", 27, 150, 95, "High"},
		{"obese plus stage 2", 32, 145, 95, "High"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := metrics.AssessRisk(tc.bmi, tc.systolic, tc.diastolic)
			if got.Level != tc.want {
				t.Fatalf("AssessRisk(%.0f, %d/%d).Level = %q, want %q", tc.bmi, tc.systolic, tc.diastolic, got.Level, tc.want)
			}
		})
	}
}

func TestAssessRisk_ConcernOrder(t *testing.T) {
	got := metrics.AssessRisk(32, 145, 95)

	if got.Level != "High" {
		t.Fatalf("Level = %q, want High", got.Level)
	}
	if len(got.Concerns) != 2 {
		t.Fatalf("expected 2 concerns, got %v", got.Concerns)
	}
	if got.Concerns[0] != "Obesity (BMI ≥30)" {
		t.Fatalf("first concern = %q, want obesity flag", got.Concerns[0])
	}
	if got.Concerns[1] != "High Blood Pressure Stage 2" {
		t.Fatalf("second concern = %q, want Stage 2 flag", got.Concerns[1])
	}
}

func TestAssessRisk_SingleBPFlag(t *testing.T) {
	// Only the worst matching BP stage is flagged.
	got := metrics.AssessRisk(22, 150, 95)
	if len(got.Concerns) != 1 || got.Concerns[0] != "High Blood Pressure Stage 2" {
		t.Fatalf("unexpected concerns: %v", got.Concerns)
	}

	got = metrics.AssessRisk(22, 125, 75)
	if len(got.Concerns) != 1 || got.Concerns[0] != "Elevated Blood Pressure" {
		t.Fatalf("unexpected concerns: %v", got.Concerns)
	}
}

func TestAssessRisk_DefaultConcern(t *testing.T) {
	got := metrics.AssessRisk(22, 110, 70)
	if len(got.Concerns) != 1 || got.Concerns[0] != "Continue healthy monitoring" {
		t.Fatalf("unexpected concerns: %v", got.Concerns)
	}
}
