/*
Package analysis orchestrates the health analysis pipeline: load the user's
current and historical readings, compute BMI, trends and risk, send a
structured prompt to the remote completion service, and degrade to a locally
synthesized narrative when the remote call fails for any reason.
*/
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/groqservice"
	"VitalTrack_V1.0/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const (
	// historyMonths is the lookback for trend computation.
	historyMonths = 6

	completionMaxTokens   = 800
	completionTemperature = 0.3
)

// ErrInsufficientData means the user has no weight or no blood pressure
// reading yet. The remote service is never called in that case.
var ErrInsufficientData = errors.New("both weight and blood pressure records are required")

// Store is the slice of the query layer the pipeline reads from.
// *database.Queries satisfies it.
type Store interface {
	GetUserByCode(ctx context.Context, code string) (database.User, error)
	LatestWeight(ctx context.Context, userID int64) (database.WeightRecord, error)
	LatestBloodPressure(ctx context.Context, userID int64) (database.BloodPressureRecord, error)
	WeightHistory(ctx context.Context, userID int64, since time.Time) ([]database.WeightRecord, error)
	BloodPressureHistory(ctx context.Context, userID int64, since time.Time) ([]database.BloodPressureRecord, error)
}

// Completer is the remote text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts groqservice.Options) (groqservice.Completion, error)
}

// Metrics carries the current measurements the narrative is built from.
type Metrics struct {
	Weight    float64 `json:"weight"`
	BMI       float64 `json:"bmi"`
	Systolic  int     `json:"systolic"`
	Diastolic int     `json:"diastolic"`
	Pulse     int     `json:"pulse"`
}

// Trends holds the two long-range trend labels.
type Trends struct {
	WeightTrend     string `json:"weight_trend"`
	BPTrend         string `json:"bp_trend"`
	RecordingPeriod string `json:"recording_period"`
}

// DataPoints counts the history rows that fed the trends.
type DataPoints struct {
	WeightRecords int `json:"weight_records"`
	BPRecords     int `json:"bp_records"`
}

// Metadata describes how the narrative was produced.
type Metadata struct {
	Model        string     `json:"model"`
	TokensUsed   int        `json:"tokens_used"`
	ResponseTime int64      `json:"response_time_ms"`
	GeneratedAt  time.Time  `json:"generated_at"`
	DataPoints   DataPoints `json:"data_points"`
}

// Result is the full pipeline output. Success reports whether the narrative
// came from the remote service; when false the narrative is the offline
// fallback and RemoteError says why.
type Result struct {
	Success     bool     `json:"success"`
	Narrative   string   `json:"narrative"`
	Metrics     Metrics  `json:"metrics"`
	Trends      Trends   `json:"trends"`
	RiskLevel   string   `json:"risk_level"`
	Concerns    []string `json:"concerns"`
	Metadata    Metadata `json:"metadata"`
	RemoteError string   `json:"remote_error,omitempty"`
}

// Pipeline wires the store and the completion service together.
type Pipeline struct {
	store     Store
	completer Completer
	now       func() time.Time
}

func New(store Store, completer Completer) *Pipeline {
	return &Pipeline{
		store:     store,
		completer: completer,
		now:       time.Now,
	}
}

// Generate runs the full pipeline for one user. The stages are strictly
// sequential: load, compute, prompt, complete-or-fallback. Remote failure is
// not an error to the caller; missing data and storage failures are.
func (p *Pipeline) Generate(ctx context.Context, code string) (Result, error) {
	user, err := p.store.GetUserByCode(ctx, code)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load user: %w", err)
	}

	latestWeight, err := p.store.LatestWeight(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Result{}, ErrInsufficientData
		}
		return Result{}, fmt.Errorf("failed to load latest weight: %w", err)
	}

	latestBP, err := p.store.LatestBloodPressure(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Result{}, ErrInsufficientData
		}
		return Result{}, fmt.Errorf("failed to load latest blood pressure: %w", err)
	}

	since := p.now().AddDate(0, -historyMonths, 0)

	weightHistory, err := p.store.WeightHistory(ctx, user.ID, since)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load weight history: %w", err)
	}
	bpHistory, err := p.store.BloodPressureHistory(ctx, user.ID, since)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load blood pressure history: %w", err)
	}

	bmi, err := metrics.CalculateBMI(latestWeight.Weight, user.Height)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compute BMI: %w", err)
	}

	weightReadings := make([]metrics.WeightReading, len(weightHistory))
	for i, r := range weightHistory {
		weightReadings[i] = metrics.WeightReading{Weight: r.Weight, RecordedAt: r.RecordedAt}
	}
	bpReadings := make([]metrics.BPReading, len(bpHistory))
	for i, r := range bpHistory {
		bpReadings[i] = metrics.BPReading{
			Systolic:   int(r.Systolic),
			Diastolic:  int(r.Diastolic),
			Pulse:      int(r.Pulse),
			RecordedAt: r.RecordedAt,
		}
	}

	weightTrend := metrics.WeightTrendLabel(weightReadings)
	bpTrend := metrics.BPTrendLabel(bpReadings)
	risk := metrics.AssessRisk(bmi, int(latestBP.Systolic), int(latestBP.Diastolic))

	result := Result{
		Metrics: Metrics{
			Weight:    latestWeight.Weight,
			BMI:       bmi,
			Systolic:  int(latestBP.Systolic),
			Diastolic: int(latestBP.Diastolic),
			Pulse:     int(latestBP.Pulse),
		},
		Trends: Trends{
			WeightTrend:     weightTrend,
			BPTrend:         bpTrend,
			RecordingPeriod: "6 months",
		},
		RiskLevel: risk.Level,
		Concerns:  risk.Concerns,
		Metadata: Metadata{
			GeneratedAt: p.now(),
			DataPoints: DataPoints{
				WeightRecords: len(weightHistory),
				BPRecords:     len(bpHistory),
			},
		},
	}

	prompt := buildPrompt(promptData{
		Age:           int(user.Age),
		HeightCm:      user.Height,
		WeightLbs:     latestWeight.Weight,
		BMI:           bmi,
		Systolic:      int(latestBP.Systolic),
		Diastolic:     int(latestBP.Diastolic),
		Pulse:         int(latestBP.Pulse),
		WeightTrend:   weightTrend,
		BPTrend:       bpTrend,
		WeightRecords: len(weightHistory),
		BPRecords:     len(bpHistory),
	})

	completion, err := p.completer.Complete(ctx, prompt, groqservice.Options{
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Remote analysis failed, using offline fallback")
		result.Success = false
		result.RemoteError = err.Error()
		result.Narrative = fallbackNarrative(result.Metrics, result.RiskLevel, result.Concerns)
		return result, nil
	}

	result.Success = true
	result.Narrative = completion.Text
	result.Metadata.Model = completion.Model
	result.Metadata.TokensUsed = completion.TokensUsed
	result.Metadata.ResponseTime = completion.Latency.Milliseconds()
	return result, nil
}
