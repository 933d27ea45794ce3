package analysis

import (
	"fmt"
	"strings"
)

type promptData struct {
	Age           int
	HeightCm      float64
	WeightLbs     float64
	BMI           float64
	Systolic      int
	Diastolic     int
	Pulse         int
	WeightTrend   string
	BPTrend       string
	WeightRecords int
	BPRecords     int
}

// buildPrompt renders the fixed-shape analysis prompt. The field order is a
// contract for drop-in replacements of the remote service; do not reorder.
func buildPrompt(d promptData) string {
	age := "Not specified"
	if d.Age > 0 {
		age = fmt.Sprintf("%d", d.Age)
	}

	return fmt.Sprintf(`You are a medical AI assistant. Analyze this health data and provide specific recommendations:

PATIENT DATA:
- Age: %s
- Height: %gcm
- Current Weight: %glbs (BMI: %.1f)
- Blood Pressure: %d/%d mmHg
- Pulse: %d bpm
- Weight Trend: %s (%d records)
- BP Trend: %s (%d records)

Provide analysis with:
1. Current health status assessment
2. Key risk factors (cardiovascular, metabolic)
3. Specific 1-year improvement plan for weight and blood pressure
4. Monthly checkpoints with measurable goals
5. Lifestyle and medical recommendations

Focus on practical, actionable advice. Keep response under 500 words.`,
		age, d.HeightCm, d.WeightLbs, d.BMI,
		d.Systolic, d.Diastolic, d.Pulse,
		d.WeightTrend, d.WeightRecords,
		d.BPTrend, d.BPRecords)
}

// fallbackNarrative synthesizes the offline analysis from the values the
// pipeline already computed. It must never fail.
func fallbackNarrative(m Metrics, riskLevel string, concerns []string) string {
	bullets := make([]string, len(concerns))
	for i, c := range concerns {
		bullets[i] = "• " + c
	}

	return fmt.Sprintf(`HEALTH ANALYSIS (Offline Mode):

Current Status: BMI %.1f, BP %d/%d mmHg
Risk Level: %s

Primary Concerns:
%s

Recommendations:
• Monitor blood pressure weekly
• Maintain healthy weight through diet and exercise
• Follow up with healthcare provider regularly
• Track measurements consistently in this app

Note: This is a basic analysis. For comprehensive AI-powered insights, ensure internet connection is available.`,
		m.BMI, m.Systolic, m.Diastolic, riskLevel, strings.Join(bullets, "\n"))
}
