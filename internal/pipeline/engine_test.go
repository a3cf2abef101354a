package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/pipeline"
	"github.com/mvirta/fitpipe/internal/pipeline/evaluators"
	"github.com/mvirta/fitpipe/internal/testhelpers"
)

func rawInputs() (pipeline.RawProfile, pipeline.RawWorkout, pipeline.RawPreferences) {
	profile := pipeline.RawProfile{
		ExperienceLevel:     "Some Experience",
		PrimaryGoal:         "Build Muscle",
		PreferredActivities: []string{"Strength Training"},
		AvailableEquipment:  []string{"Dumbbells"},
	}
	workout := pipeline.RawWorkout{
		Focus:       "Strength",
		DurationMin: 45,
		EnergyLevel: 7,
		Equipment:   []string{"Dumbbells"},
	}
	prefs := pipeline.RawPreferences{
		WorkoutStyle:        []string{"Guided"},
		IntensityPreference: "Moderate",
		AssistLevel:         "Moderate",
	}
	return profile, workout, prefs
}

func newEngine(t *testing.T, cfg pipeline.Config, evals ...pipeline.Evaluator) *pipeline.Engine {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	if len(evals) == 0 {
		evals = evaluators.All()
	}
	return pipeline.NewEngine(logger, pipeline.NewStrategy(logger, evals...), cfg)
}

func TestEngineFullRun(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, pipeline.DefaultConfig())

	profile, workout, prefs := rawInputs()
	if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	result, err := engine.GenerateRecommendations(context.Background())
	if err != nil {
		t.Fatalf("GenerateRecommendations: %v", err)
	}
	if engine.Status() != pipeline.StatusComplete {
		t.Errorf("Status = %q, want %q", engine.Status(), pipeline.StatusComplete)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("no recommendations produced")
	}
	for _, rec := range result.Recommendations {
		if rec.Confidence < pipeline.DefaultConfidenceThreshold {
			t.Errorf("recommendation %q below threshold: %f", rec.Content, rec.Confidence)
		}
	}
	if result.Analysis.ConfidenceLevel < pipeline.DefaultConfidenceThreshold {
		t.Errorf("ConfidenceLevel = %f, want at least the threshold", result.Analysis.ConfidenceLevel)
	}

	// An intermediate profile without soreness or a wide equipment selection
	// lands on the intermediate template.
	template, _, err := pipeline.SelectPromptTemplate(result.Context, result.Recommendations, result.Config)
	if err != nil {
		t.Fatalf("SelectPromptTemplate: %v", err)
	}
	if template.UseCase != pipeline.UseCaseIntermediate {
		t.Errorf("UseCase = %q, want %q", template.UseCase, pipeline.UseCaseIntermediate)
	}
}

func TestEngineRunIsRepeatable(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, pipeline.DefaultConfig())

	profile, workout, prefs := rawInputs()
	if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	first, err := engine.GenerateRecommendations(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	engine.Reset()
	if engine.Status() != pipeline.StatusIdle {
		t.Errorf("Status after Reset = %q, want %q", engine.Status(), pipeline.StatusIdle)
	}
	if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	second, err := engine.GenerateRecommendations(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(first.Recommendations) != len(second.Recommendations) {
		t.Fatalf("run sizes differ: %d vs %d", len(first.Recommendations), len(second.Recommendations))
	}
	for i := range first.Recommendations {
		if first.Recommendations[i].Content != second.Recommendations[i].Content {
			t.Errorf("recommendation %d differs: %q vs %q",
				i, first.Recommendations[i].Content, second.Recommendations[i].Content)
		}
	}
}

func TestEngineUninitialized(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, pipeline.DefaultConfig())

	_, err := engine.GenerateRecommendations(context.Background())
	var engineErr *pipeline.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error type = %T, want *EngineError", err)
	}
	if engineErr.Type != pipeline.ErrInvalidContext {
		t.Errorf("error type = %q, want %q", engineErr.Type, pipeline.ErrInvalidContext)
	}
	if engine.Status() != pipeline.StatusError {
		t.Errorf("Status = %q, want %q", engine.Status(), pipeline.StatusError)
	}
}

func TestEngineInvalidContext(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, pipeline.DefaultConfig())

	profile, workout, prefs := rawInputs()
	workout.Equipment = nil
	if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := engine.GenerateRecommendations(context.Background())
	var engineErr *pipeline.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error type = %T, want *EngineError", err)
	}
	if engineErr.Type != pipeline.ErrValidation {
		t.Errorf("error type = %q, want %q", engineErr.Type, pipeline.ErrValidation)
	}
	if len(engine.Errors()) != 1 {
		t.Errorf("Errors() = %+v, want one entry", engine.Errors())
	}
}

// hangingEvaluator blocks until its context is cancelled.
type hangingEvaluator struct{}

func (hangingEvaluator) Name() string { return "hanging" }

func (hangingEvaluator) Analyze(ctx context.Context, _ pipeline.GlobalContext) ([]pipeline.Insight, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestEngineTimeout(t *testing.T) {
	t.Parallel()

	cfg := pipeline.DefaultConfig()
	cfg.AnalysisTimeout = 50 * time.Millisecond
	engine := newEngine(t, cfg, hangingEvaluator{})

	profile, workout, prefs := rawInputs()
	if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := engine.GenerateRecommendations(context.Background())
	var engineErr *pipeline.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error type = %T, want *EngineError", err)
	}
	if engineErr.Type != pipeline.ErrTimeout {
		t.Errorf("error type = %q, want %q", engineErr.Type, pipeline.ErrTimeout)
	}
	if engine.Status() != pipeline.StatusError {
		t.Errorf("Status = %q, want %q", engine.Status(), pipeline.StatusError)
	}
}

func TestEngineExpiredDeadlineIsTimeout(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, pipeline.DefaultConfig(), hangingEvaluator{})
	profile, workout, prefs := rawInputs()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	// With an already expired deadline both sides of the race are ready: the
	// timer branch, and the strategy settling with the deadline error. Either
	// way the failure must classify as a timeout, never a validation error.
	for range 20 {
		if err := engine.Initialize(context.Background(), profile, workout, prefs); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		_, err := engine.GenerateRecommendations(ctx)
		var engineErr *pipeline.EngineError
		if !errors.As(err, &engineErr) {
			t.Fatalf("error type = %T, want *EngineError", err)
		}
		if engineErr.Type != pipeline.ErrTimeout {
			t.Fatalf("error type = %q, want %q", engineErr.Type, pipeline.ErrTimeout)
		}
		engine.Reset()
	}
}

func TestEngineUpdateConfig(t *testing.T) {
	t.Parallel()
	engine := newEngine(t, pipeline.DefaultConfig())

	threshold := 0.9
	maxRecs := 3
	engine.UpdateConfig(pipeline.ConfigPatch{
		ConfidenceThreshold: &threshold,
		MaxRecommendations:  &maxRecs,
	})

	cfg := engine.Config()
	if cfg.ConfidenceThreshold != threshold {
		t.Errorf("ConfidenceThreshold = %f, want %f", cfg.ConfidenceThreshold, threshold)
	}
	if cfg.MaxRecommendations != maxRecs {
		t.Errorf("MaxRecommendations = %d, want %d", cfg.MaxRecommendations, maxRecs)
	}
	// Unpatched fields keep their defaults.
	if cfg.AnalysisTimeout != pipeline.DefaultAnalysisTimeout {
		t.Errorf("AnalysisTimeout = %s, want %s", cfg.AnalysisTimeout, pipeline.DefaultAnalysisTimeout)
	}
}
