package metrics

// Assessment combines BMI and blood pressure into a coarse risk bucket with
// an ordered list of concerns for the narrative.
type Assessment struct {
	Level    string   `json:"level"` // Low, Moderate, High
	Concerns []string `json:"concerns"`
}

// AssessRisk scores the current snapshot. BP contributes 2 points at Stage 2
// thresholds or 1 at Stage 1; BMI contributes 2 at obese or 1 at overweight.
// Total >=3 is High, >=1 Moderate, otherwise Low.
//
// The concerns list is built independently of the score and keeps a fixed
// order: weight flag first, then a single BP flag (worst stage wins).
func AssessRisk(bmi float64, systolic, diastolic int) Assessment {
	score := 0

	if systolic >= 140 || diastolic >= 90 {
		score += 2
	} else if systolic >= 130 || diastolic >= 80 {
		score++
	}

	if bmi >= 30 {
		score += 2
	} else if bmi >= 25 {
		score++
	}

	var concerns []string
	if bmi >= 30 {
		concerns = append(concerns, "Obesity (BMI ≥30)")
	} else if bmi >= 25 {
		concerns = append(concerns, "Overweight (BMI ≥25)")
	}

	if systolic >= 140 || diastolic >= 90 {
		concerns = append(concerns, "High Blood Pressure Stage 2")
	} else if systolic >= 130 || diastolic >= 80 {
		concerns = append(concerns, "High Blood Pressure Stage 1")
	} else if systolic >= 120 {
		concerns = append(concerns, "Elevated Blood Pressure")
	}

	if len(concerns) == 0 {
		concerns = append(concerns, "Continue healthy monitoring")
	}

	level := "Low"
	switch {
	case score >= 3:
		level = "High"
	case score >= 1:
		level = "Moderate"
	}

	return Assessment{Level: level, Concerns: concerns}
}
