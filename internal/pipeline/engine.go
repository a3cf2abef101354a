package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvirta/fitpipe/internal/errors"
)

// Status is the engine lifecycle state.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusAnalyzingProfile Status = "analyzing_profile"
	StatusAnalyzingWorkout Status = "analyzing_workout"
	StatusGenerating       Status = "generating_recommendations"
	StatusValidating       Status = "validating"
	StatusComplete         Status = "complete"
	StatusError            Status = "error"
)

// ErrorType classifies engine errors.
type ErrorType string

const (
	ErrValidation     ErrorType = "VALIDATION_ERROR"
	ErrInvalidContext ErrorType = "INVALID_CONTEXT"
	ErrTimeout        ErrorType = "TIMEOUT"
)

// EngineError is a structured engine failure.
type EngineError struct {
	Type    ErrorType
	Message string
	Details map[string]any
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Analysis holds the scoring metrics of one engine run.
type Analysis struct {
	// ProfileScore, WorkoutScore, and CombinedScore are the mean of
	// confidence × priority weight over each source bucket.
	ProfileScore  float64
	WorkoutScore  float64
	CombinedScore float64
	// ConfidenceLevel is the mean confidence across the final set.
	ConfidenceLevel float64
	// ProcessingTime is the wall clock since Initialize.
	ProcessingTime time.Duration
}

// Result is the immutable outcome of one successful engine run.
type Result struct {
	Recommendations []Recommendation
	Analysis        Analysis
	Context         Context
	Variables       map[string]string
	Config          Config
}

// Engine orchestrates one pipeline run: context building, validation,
// recommendation generation, and scoring.
//
// An engine holds one context at a time and is not safe for concurrent use;
// construct one per request or serialize calls. Reset makes an instance
// reusable for another run.
type Engine struct {
	strategy *Strategy
	logger   *slog.Logger
	cfg      Config

	status      Status
	workContext *Context
	errs        []EngineError
	startedAt   time.Time
}

// NewEngine creates an idle engine.
func NewEngine(logger *slog.Logger, strategy *Strategy, cfg Config) *Engine {
	return &Engine{
		strategy:    strategy,
		logger:      logger,
		cfg:         cfg,
		status:      StatusIdle,
		workContext: nil,
		errs:        nil,
		startedAt:   time.Time{},
	}
}

// Initialize builds and merges the partial contexts from raw input. It fails
// when either builder rejects its slice.
func (e *Engine) Initialize(ctx context.Context, rawProfile RawProfile, rawWorkout RawWorkout, rawPrefs RawPreferences) error {
	e.startedAt = time.Now()

	e.status = StatusAnalyzingProfile
	profile, err := BuildProfileContext(ctx, e.logger, rawProfile)
	if err != nil {
		return e.fail(ctx, ErrValidation, "profile analysis failed", map[string]any{"cause": err.Error()})
	}

	e.status = StatusAnalyzingWorkout
	workout, err := BuildWorkoutContext(ctx, e.logger, rawWorkout)
	if err != nil {
		return e.fail(ctx, ErrValidation, "workout analysis failed", map[string]any{"cause": err.Error()})
	}

	e.workContext = &Context{
		Profile:     profile,
		Workout:     workout,
		Preferences: BuildPreferences(rawPrefs),
	}
	e.status = StatusIdle

	return nil
}

// strategyOutcome carries the fan-out result across the timeout race.
type strategyOutcome struct {
	recs []Recommendation
	err  error
}

// GenerateRecommendations runs the full pipeline on the initialized context.
// The strategy call races against the configured analysis timeout; on expiry
// the in-flight evaluator calls are abandoned and a TIMEOUT error is raised.
func (e *Engine) GenerateRecommendations(ctx context.Context) (Result, error) {
	if e.workContext == nil {
		return Result{}, e.fail(ctx, ErrInvalidContext, "engine is not initialized", nil)
	}

	// The single validation gate: nothing downstream runs on an invalid context.
	if validation := ValidateContext(*e.workContext); !validation.IsValid() {
		return Result{}, e.fail(ctx, ErrValidation, "context validation failed",
			map[string]any{"issues": validation.Issues})
	}

	e.status = StatusGenerating
	workContext := *e.workContext

	timeoutCtx, cancel := context.WithTimeout(ctx, e.cfg.AnalysisTimeout)
	defer cancel()

	// Buffered so the abandoned branch of the race can still send and exit.
	outcome := make(chan strategyOutcome, 1)
	go func() {
		recs, err := e.strategy.Generate(timeoutCtx, workContext, e.cfg)
		outcome <- strategyOutcome{recs: recs, err: err}
	}()

	var recs []Recommendation
	select {
	case result := <-outcome:
		if result.err != nil {
			// The strategy goroutine can observe the expired deadline and
			// settle before the timer branch of this select is chosen.
			if errors.Is(result.err, context.DeadlineExceeded) {
				return Result{}, e.fail(ctx, ErrTimeout,
					fmt.Sprintf("analysis exceeded %s", e.cfg.AnalysisTimeout),
					map[string]any{"timeout_ms": e.cfg.AnalysisTimeout.Milliseconds()})
			}
			return Result{}, e.fail(ctx, ErrValidation, "recommendation generation failed",
				map[string]any{"cause": result.err.Error()})
		}
		recs = result.recs
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			// Caller cancellation, not our deadline.
			return Result{}, e.fail(ctx, ErrTimeout, "analysis cancelled by caller",
				map[string]any{"cause": ctx.Err().Error()})
		}
		return Result{}, e.fail(ctx, ErrTimeout,
			fmt.Sprintf("analysis exceeded %s", e.cfg.AnalysisTimeout),
			map[string]any{"timeout_ms": e.cfg.AnalysisTimeout.Milliseconds()})
	}

	e.status = StatusValidating
	if validation := ValidateRecommendations(recs); !validation.IsValid() {
		return Result{}, e.fail(ctx, ErrValidation, "recommendation validation failed",
			map[string]any{"issues": validation.Issues})
	}

	recs = e.finalizeRecommendations(recs)

	result := Result{
		Recommendations: recs,
		Analysis:        e.scoreRecommendations(recs),
		Context:         workContext,
		Variables: map[string]string{
			"focus":     workContext.Workout.Focus,
			"duration":  fmt.Sprintf("%d", workContext.Workout.DurationMin),
			"energy":    fmt.Sprintf("%d", workContext.Workout.EnergyLevel),
			"equipment": fmt.Sprintf("%v", workContext.Workout.Equipment),
		},
		Config: e.cfg,
	}

	e.status = StatusComplete
	e.logger.DebugContext(ctx, "engine run complete",
		slog.Int("recommendations", len(recs)),
		slog.Duration("processing_time", result.Analysis.ProcessingTime))

	return result, nil
}

// finalizeRecommendations re-ranks, truncates to the configured cap, and
// re-applies the confidence threshold.
func (e *Engine) finalizeRecommendations(recs []Recommendation) []Recommendation {
	sortRecommendations(recs)
	if len(recs) > e.cfg.MaxRecommendations {
		recs = recs[:e.cfg.MaxRecommendations]
	}
	return filterByConfidence(recs, e.cfg.ConfidenceThreshold)
}

// scoreRecommendations computes the per-source analysis scores.
func (e *Engine) scoreRecommendations(recs []Recommendation) Analysis {
	var sums, counts [3]float64
	var confidenceTotal float64

	for _, rec := range recs {
		score := rec.Confidence * float64(rec.Priority.Weight())
		confidenceTotal += rec.Confidence

		var bucket int
		switch rec.Source {
		case SourceProfile:
			bucket = 0
		case SourceWorkout:
			bucket = 1
		case SourceCombined:
			bucket = 2
		default:
			continue
		}
		sums[bucket] += score
		counts[bucket]++
	}

	mean := func(bucket int) float64 {
		if counts[bucket] == 0 {
			return 0
		}
		return sums[bucket] / counts[bucket]
	}

	confidenceLevel := 0.0
	if len(recs) > 0 {
		confidenceLevel = confidenceTotal / float64(len(recs))
	}

	return Analysis{
		ProfileScore:    mean(0),
		WorkoutScore:    mean(1),
		CombinedScore:   mean(2),
		ConfidenceLevel: confidenceLevel,
		ProcessingTime:  time.Since(e.startedAt),
	}
}

// fail records a structured error, moves the engine to the error state, and
// returns the error.
func (e *Engine) fail(ctx context.Context, errType ErrorType, message string, details map[string]any) error {
	engineErr := EngineError{Type: errType, Message: message, Details: details}
	e.errs = append(e.errs, engineErr)
	e.status = StatusError
	e.logger.WarnContext(ctx, "engine error",
		slog.String("type", string(errType)), slog.String("message", message))
	return &engineErr
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status {
	return e.status
}

// Errors returns the ordered list of errors collected so far.
func (e *Engine) Errors() []EngineError {
	return e.errs
}

// Context returns the initialized context, if any.
func (e *Engine) Context() (Context, bool) {
	if e.workContext == nil {
		return Context{}, false
	}
	return *e.workContext, true
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// UpdateConfig merges a partial configuration update into the engine.
func (e *Engine) UpdateConfig(patch ConfigPatch) {
	e.cfg = e.cfg.apply(patch)
}

// Reset clears context, errors, status, and the timing baseline so the
// instance can be reused for another run.
func (e *Engine) Reset() {
	e.workContext = nil
	e.errs = nil
	e.status = StatusIdle
	e.startedAt = time.Time{}
}
