/*
Package metrics implements the clinical classification, trend aggregation,
and risk scoring logic for user health readings. Everything in this package
is pure: functions never touch storage or the network.
*/
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMeasurement flags non-physiological or non-numeric input.
// Callers must surface it immediately instead of coercing values.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// Physiological plausibility bounds enforced before a reading is persisted.
const (
	MinSystolic  = 50
	MaxSystolic  = 300
	MinDiastolic = 30
	MaxDiastolic = 200
	MinPulse     = 30
	MaxPulse     = 220
)

// lbsToKg is the pound-to-kilogram conversion factor used for BMI.
const lbsToKg = 0.453592

// Stage is an AHA-style blood pressure classification result.
type Stage struct {
	Stage          string `json:"stage"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Color          string `json:"color"`
}

// Category is a BMI bucket with a display color hint.
type Category struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// ClassifyBloodPressure maps a systolic/diastolic pair to its AHA stage.
// It is a total function: any numeric input yields exactly one stage.
//
// The ranges overlap, so evaluation order is part of the contract. Crisis is
// checked first: a 190/100 reading also satisfies the Stage 2 condition, and
// checking Stage 2 earlier would make Crisis unreachable.
func ClassifyBloodPressure(systolic, diastolic int) Stage {
	if systolic > 180 || diastolic > 120 {
		return Stage{
			Stage:          "Hypertensive Crisis",
			Description:    "Higher than 180/120 mmHg",
			Recommendation: "Seek immediate medical attention!",
			Color:          "#8e44ad",
		}
	}

	if systolic >= 140 || diastolic >= 90 {
		return Stage{
			Stage:          "High Blood Pressure Stage 2",
			Description:    "140/90 mmHg or higher",
			Recommendation: "Lifestyle changes and medication likely needed.",
			Color:          "#e74c3c",
		}
	}

	if (systolic >= 130 && systolic <= 139) || (diastolic >= 80 && diastolic <= 89) {
		return Stage{
			Stage:          "High Blood Pressure Stage 1",
			Description:    "130-139/80-89 mmHg",
			Recommendation: "Lifestyle changes and possibly medication.",
			Color:          "#e67e22",
		}
	}

	if systolic >= 120 && systolic <= 129 && diastolic < 80 {
		return Stage{
			Stage:          "Elevated",
			Description:    "120-129 systolic and less than 80 diastolic",
			Recommendation: "Adopt healthy lifestyle changes.",
			Color:          "#f39c12",
		}
	}

	if systolic < 120 && diastolic < 80 {
		return Stage{
			Stage:          "Normal",
			Description:    "Less than 120/80 mmHg",
			Recommendation: "Maintain healthy lifestyle habits.",
			Color:          "#27ae60",
		}
	}

	return Stage{
		Stage:          "Invalid Reading",
		Description:    "Please check your values",
		Recommendation: "Enter valid blood pressure values.",
		Color:          "#95a5a6",
	}
}

// CalculateBMI converts weight in pounds and height in centimeters to a BMI
// value rounded to one decimal.
func CalculateBMI(weightLbs, heightCm float64) (float64, error) {
	if weightLbs <= 0 {
		return 0, fmt.Errorf("%w: weight must be greater than 0, got %.1f", ErrInvalidMeasurement, weightLbs)
	}
	if heightCm <= 0 {
		return 0, fmt.Errorf("%w: height must be greater than 0, got %.1f", ErrInvalidMeasurement, heightCm)
	}

	weightKg := weightLbs * lbsToKg
	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)

	return math.Round(bmi*10) / 10, nil
}

// CategorizeBMI maps a BMI value to its WHO category.
func CategorizeBMI(bmi float64) Category {
	switch {
	case bmi < 18.5:
		return Category{Category: "Underweight", Color: "#3498db"}
	case bmi < 25:
		return Category{Category: "Normal", Color: "#27ae60"}
	case bmi < 30:
		return Category{Category: "Overweight", Color: "#f39c12"}
	default:
		return Category{Category: "Obese", Color: "#e74c3c"}
	}
}

// ValidateReading enforces the persistence-gate invariant for blood pressure
// readings: values inside plausible bounds and systolic above diastolic.
func ValidateReading(systolic, diastolic, pulse int) error {
	if systolic <= 0 || diastolic <= 0 || pulse <= 0 {
		return fmt.Errorf("%w: values must be greater than 0", ErrInvalidMeasurement)
	}
	if systolic > MaxSystolic || diastolic > MaxDiastolic || pulse > MaxPulse {
		return fmt.Errorf("%w: values seem unusually high", ErrInvalidMeasurement)
	}
	if systolic < MinSystolic || diastolic < MinDiastolic || pulse < MinPulse {
		return fmt.Errorf("%w: values seem unusually low", ErrInvalidMeasurement)
	}
	if systolic <= diastolic {
		return fmt.Errorf("%w: systolic pressure should be higher than diastolic pressure", ErrInvalidMeasurement)
	}
	return nil
}
