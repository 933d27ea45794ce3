package analysis_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"VitalTrack_V1.0/internal/analysis"
	"VitalTrack_V1.0/internal/database"
	"VitalTrack_V1.0/internal/groqservice"
	"github.com/jackc/pgx/v5"
)

type fakeStore struct {
	getUserByCode        func(ctx context.Context, code string) (database.User, error)
	latestWeight         func(ctx context.Context, userID int64) (database.WeightRecord, error)
	latestBloodPressure  func(ctx context.Context, userID int64) (database.BloodPressureRecord, error)
	weightHistory        func(ctx context.Context, userID int64, since time.Time) ([]database.WeightRecord, error)
	bloodPressureHistory func(ctx context.Context, userID int64, since time.Time) ([]database.BloodPressureRecord, error)
}

func (f *fakeStore) GetUserByCode(ctx context.Context, code string) (database.User, error) {
	return f.getUserByCode(ctx, code)
}
func (f *fakeStore) LatestWeight(ctx context.Context, userID int64) (database.WeightRecord, error) {
	return f.latestWeight(ctx, userID)
}
func (f *fakeStore) LatestBloodPressure(ctx context.Context, userID int64) (database.BloodPressureRecord, error) {
	return f.latestBloodPressure(ctx, userID)
}
func (f *fakeStore) WeightHistory(ctx context.Context, userID int64, since time.Time) ([]database.WeightRecord, error) {
	return f.weightHistory(ctx, userID, since)
}
func (f *fakeStore) BloodPressureHistory(ctx context.Context, userID int64, since time.Time) ([]database.BloodPressureRecord, error) {
	return f.bloodPressureHistory(ctx, userID, since)
}

type fakeCompleter struct {
	calls    int
	lastOpts groqservice.Options
	prompt   string
	complete func(prompt string) (groqservice.Completion, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, opts groqservice.Options) (groqservice.Completion, error) {
	f.calls++
	f.lastOpts = opts
	f.prompt = prompt
	return f.complete(prompt)
}

// healthyStore returns a store with one user (height 170cm, age 45), a latest
// weight of 180lbs and a latest BP of 150/95 pulse 80, each with a two-point
// history.
func healthyStore() *fakeStore {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	user := database.User{ID: 7, Name: "pat", Age: 45, Height: 170, Code: "abc123"}

	weights := []database.WeightRecord{
		{ID: 1, UserID: 7, Weight: 178, RecordedAt: now.AddDate(0, -2, 0)},
		{ID: 2, UserID: 7, Weight: 180, RecordedAt: now.AddDate(0, 0, -1)},
	}
	bps := []database.BloodPressureRecord{
		{ID: 1, UserID: 7, Systolic: 142, Diastolic: 90, Pulse: 78, RecordedAt: now.AddDate(0, -2, 0)},
		{ID: 2, UserID: 7, Systolic: 150, Diastolic: 95, Pulse: 80, RecordedAt: now.AddDate(0, 0, -1)},
	}

	return &fakeStore{
		getUserByCode: func(ctx context.Context, code string) (database.User, error) {
			if code != user.Code {
				return database.User{}, pgx.ErrNoRows
			}
			return user, nil
		},
		latestWeight: func(ctx context.Context, userID int64) (database.WeightRecord, error) {
			return weights[len(weights)-1], nil
		},
		latestBloodPressure: func(ctx context.Context, userID int64) (database.BloodPressureRecord, error) {
			return bps[len(bps)-1], nil
		},
		weightHistory: func(ctx context.Context, userID int64, since time.Time) ([]database.WeightRecord, error) {
			return weights, nil
		},
		bloodPressureHistory: func(ctx context.Context, userID int64, since time.Time) ([]database.BloodPressureRecord, error) {
			return bps, nil
		},
	}
}

func TestGenerate_RemoteSuccess(t *testing.T) {
	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{
				Text:       "Focus on reducing sodium intake.",
				Model:      "llama3-8b-8192",
				TokensUsed: 512,
				Latency:    120 * time.Millisecond,
			}, nil
		},
	}

	p := analysis.New(healthyStore(), completer)
	got, err := p.Generate(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Success {
		t.Fatal("expected Success=true for a working remote service")
	}
	if got.Narrative != "Focus on reducing sodium intake." {
		t.Fatalf("unexpected narrative: %q", got.Narrative)
	}
	if got.Metadata.Model != "llama3-8b-8192" || got.Metadata.TokensUsed != 512 {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
	if got.Metadata.DataPoints.WeightRecords != 2 || got.Metadata.DataPoints.BPRecords != 2 {
		t.Fatalf("unexpected data points: %+v", got.Metadata.DataPoints)
	}
	if completer.lastOpts.MaxTokens != 800 || completer.lastOpts.Temperature != 0.3 {
		t.Fatalf("unexpected completion options: %+v", completer.lastOpts)
	}
}

func TestGenerate_PromptContract(t *testing.T) {
	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{Text: "ok"}, nil
		},
	}

	p := analysis.New(healthyStore(), completer)
	if _, err := p.Generate(context.Background(), "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 180lbs at 170cm is a BMI of 28.3.
	for _, want := range []string{
		"PATIENT DATA:",
		"- Age: 45",
		"- Height: 170cm",
		"- Current Weight: 180lbs (BMI: 28.3)",
		"- Blood Pressure: 150/95 mmHg",
		"- Pulse: 80 bpm",
		"- Weight Trend: stable (2 records)",
		"- BP Trend: stable (2 records)",
		"Keep response under 500 words.",
	} {
		if !strings.Contains(completer.prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, completer.prompt)
		}
	}
}

func TestGenerate_FallbackOnRemoteFailure(t *testing.T) {
	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{}, errors.New("connection refused")
		},
	}

	p := analysis.New(healthyStore(), completer)
	got, err := p.Generate(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("remote failure must not surface as an error, got %v", err)
	}

	if got.Success {
		t.Fatal("expected Success=false when the remote call fails")
	}
	if got.RemoteError == "" {
		t.Fatal("expected RemoteError to carry the failure reason")
	}
	if !strings.Contains(got.Narrative, "HEALTH ANALYSIS (Offline Mode):") {
		t.Fatalf("expected offline narrative, got:\n%s", got.Narrative)
	}
	if !strings.Contains(got.Narrative, "BMI 28.3, BP 150/95 mmHg") {
		t.Fatalf("fallback narrative missing current status line:\n%s", got.Narrative)
	}
	if !strings.Contains(got.Narrative, "Risk Level: High") {
		t.Fatalf("fallback narrative missing risk level:\n%s", got.Narrative)
	}
	if !strings.Contains(got.Narrative, "• Overweight (BMI ≥25)") ||
		!strings.Contains(got.Narrative, "• High Blood Pressure Stage 2") {
		t.Fatalf("fallback narrative missing concerns:\n%s", got.Narrative)
	}

	// The computed aggregates are identical to the success path.
	if got.RiskLevel != "High" {
		t.Fatalf("unexpected risk level: %q", got.RiskLevel)
	}
	if got.Metrics.BMI != 28.3 {
		t.Fatalf("unexpected BMI: %v", got.Metrics.BMI)
	}
}

func TestGenerate_MissingBloodPressure(t *testing.T) {
	store := healthyStore()
	store.latestBloodPressure = func(ctx context.Context, userID int64) (database.BloodPressureRecord, error) {
		return database.BloodPressureRecord{}, pgx.ErrNoRows
	}

	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{Text: "ok"}, nil
		},
	}

	p := analysis.New(store, completer)
	_, err := p.Generate(context.Background(), "abc123")
	if !errors.Is(err, analysis.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("remote service must not be called without data, got %d calls", completer.calls)
	}
}

func TestGenerate_MissingWeight(t *testing.T) {
	store := healthyStore()
	store.latestWeight = func(ctx context.Context, userID int64) (database.WeightRecord, error) {
		return database.WeightRecord{}, pgx.ErrNoRows
	}

	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{Text: "ok"}, nil
		},
	}

	p := analysis.New(store, completer)
	if _, err := p.Generate(context.Background(), "abc123"); !errors.Is(err, analysis.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestGenerate_UnknownCode(t *testing.T) {
	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{Text: "ok"}, nil
		},
	}

	p := analysis.New(healthyStore(), completer)
	if _, err := p.Generate(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown code")
	}
	if completer.calls != 0 {
		t.Fatal("remote service must not be called for unknown users")
	}
}

func TestGenerate_StorageFailureIsNotInsufficientData(t *testing.T) {
	store := healthyStore()
	store.weightHistory = func(ctx context.Context, userID int64, since time.Time) ([]database.WeightRecord, error) {
		return nil, errors.New("connection reset")
	}

	completer := &fakeCompleter{
		complete: func(prompt string) (groqservice.Completion, error) {
			return groqservice.Completion{Text: "ok"}, nil
		},
	}

	p := analysis.New(store, completer)
	_, err := p.Generate(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected storage error to surface")
	}
	if errors.Is(err, analysis.ErrInsufficientData) {
		t.Fatal("storage failure must not be reported as insufficient data")
	}
}
