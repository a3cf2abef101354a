package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/pipeline"
	"github.com/mvirta/fitpipe/internal/pipeline/evaluators"
	"github.com/mvirta/fitpipe/internal/sqlite"
)

// Feature flag names understood by the service.
const (
	FlagLLMGeneration    = "llm_generation"
	FlagDetailedAnalysis = "detailed_analysis"
)

// Number of recent plans returned by RecentPlans.
const recentPlanLimit = 20

// PlanRequest carries the raw intake input for one plan generation.
type PlanRequest struct {
	Profile     pipeline.RawProfile
	Workout     pipeline.RawWorkout
	Preferences pipeline.RawPreferences
}

// PlanResult is the outcome of one plan generation.
type PlanResult struct {
	Stored          StoredPlan
	Recommendations []pipeline.Recommendation
	Analysis        pipeline.Analysis
	Template        pipeline.PromptTemplate
}

// Service handles the business logic of plan generation.
type Service struct {
	repo         *repository
	logger       *slog.Logger
	openaiAPIKey string
	rng          *rand.Rand
}

// NewService creates a new workout service. An empty openaiAPIKey disables
// LLM plan generation regardless of feature flags.
func NewService(db *sqlite.Database, logger *slog.Logger, openaiAPIKey string) *Service {
	return &Service{
		repo:         newRepository(db),
		logger:       logger,
		openaiAPIKey: openaiAPIKey,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// GeneratePlan runs the full recommendation pipeline on the request, selects
// a prompt template, and produces a plan through the LLM or the fallback
// generator. The plan is persisted before it is returned.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	cfg, err := s.pipelineConfig(ctx)
	if err != nil {
		return PlanResult{}, fmt.Errorf("resolve pipeline config: %w", err)
	}

	engine := pipeline.NewEngine(s.logger, pipeline.NewStrategy(s.logger, evaluators.All()...), cfg)
	if err = engine.Initialize(ctx, req.Profile, req.Workout, req.Preferences); err != nil {
		return PlanResult{}, fmt.Errorf("initialize analysis: %w", err)
	}

	result, err := engine.GenerateRecommendations(ctx)
	if err != nil {
		return PlanResult{}, fmt.Errorf("generate recommendations: %w", err)
	}

	template, _, err := pipeline.SelectPromptTemplate(result.Context, result.Recommendations, cfg)
	if err != nil {
		return PlanResult{}, fmt.Errorf("select prompt template: %w", err)
	}

	plan := s.buildPlan(ctx, result, template, cfg)

	stored, err := s.repo.plans.Create(ctx, plan)
	if err != nil {
		return PlanResult{}, fmt.Errorf("persist plan: %w", err)
	}

	s.logger.InfoContext(ctx, "generated workout plan",
		slog.Int64("plan_id", stored.ID),
		slog.String("workout_type", plan.WorkoutType),
		slog.String("source", plan.Provenance.Source),
		slog.Int("exercises", len(plan.Exercises)))

	return PlanResult{
		Stored:          stored,
		Recommendations: result.Recommendations,
		Analysis:        result.Analysis,
		Template:        template,
	}, nil
}

// buildPlan produces the plan, trying the LLM path first when it is enabled
// and falling back to the deterministic generator on any failure.
func (s *Service) buildPlan(
	ctx context.Context,
	result pipeline.Result,
	template pipeline.PromptTemplate,
	cfg pipeline.Config,
) Plan {
	fallback := newGenerator(cfg, s.rng)

	if s.llmEnabled(ctx, result.Context.Preferences) {
		plan, err := s.generateLLMPlan(ctx, result, template, cfg)
		if err == nil {
			return plan
		}
		s.logger.WarnContext(ctx, "LLM plan generation failed, using fallback generator",
			errors.SlogError(err))
	}

	plan, err := fallback.Generate(result.Context, result.Recommendations, template)
	if err != nil {
		// The library always covers bodyweight plans, so this only happens
		// with an empty plan type pool. Degrade to an exercise-free outline.
		s.logger.ErrorContext(ctx, "fallback plan generation failed", errors.SlogError(err))
		plan = Plan{
			WorkoutType:  planWorkoutType(result.Context),
			Focus:        result.Context.Workout.Focus,
			Intensity:    planIntensity(result.Context),
			DurationMin:  result.Context.Workout.DurationMin,
			TemplateUsed: template.UseCase,
			Provenance: Provenance{
				Source:          PlanSourceGenerated,
				Prompt:          template.Text,
				Recommendations: recommendationContents(result.Recommendations),
			},
		}
	}
	return plan
}

// generateLLMPlan asks the model for the exercise list and wraps it in the
// deterministic plan scaffolding.
func (s *Service) generateLLMPlan(
	ctx context.Context,
	result pipeline.Result,
	template pipeline.PromptTemplate,
	cfg pipeline.Config,
) (Plan, error) {
	draft, err := newPlanGenerator(s.openaiAPIKey, s.logger).Generate(ctx, template.Text)
	if err != nil {
		return Plan{}, err
	}

	c := result.Context
	notes := newGenerator(cfg, s.rng).buildNotes(c, result.Recommendations)
	notes = append(notes, draft.Notes...)

	return Plan{
		WorkoutType:  planWorkoutType(c),
		Focus:        c.Workout.Focus,
		Intensity:    planIntensity(c),
		DurationMin:  c.Workout.DurationMin,
		WarmupMin:    scaledMinutes(c.Workout.DurationMin, warmupFraction, minWarmupMin),
		CooldownMin:  scaledMinutes(c.Workout.DurationMin, cooldownFraction, minCooldownMin),
		Exercises:    draft.Exercises,
		Rest:         restPeriods(c),
		Equipment:    aggregateEquipment(draft.Exercises),
		Notes:        notes,
		TemplateUsed: template.UseCase,
		Provenance: Provenance{
			Source:          PlanSourceLLM,
			Prompt:          template.Text,
			Recommendations: recommendationContents(result.Recommendations),
		},
	}, nil
}

// pipelineConfig derives the engine configuration from feature flags.
func (s *Service) pipelineConfig(ctx context.Context) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	detailed, err := s.flagEnabled(ctx, FlagDetailedAnalysis)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg.EnableDetailedAnalysis = detailed

	return cfg, nil
}

// llmEnabled reports whether this request should take the LLM path. It
// requires an API key, the feature flag, and full AI assistance opt-in.
func (s *Service) llmEnabled(ctx context.Context, prefs pipeline.Preferences) bool {
	if s.openaiAPIKey == "" || prefs.AssistLevel != pipeline.AssistFull {
		return false
	}
	enabled, err := s.flagEnabled(ctx, FlagLLMGeneration)
	if err != nil {
		s.logger.WarnContext(ctx, "feature flag lookup failed", errors.SlogError(err))
		return false
	}
	return enabled
}

// flagEnabled looks up a feature flag, treating a missing flag as disabled.
func (s *Service) flagEnabled(ctx context.Context, name string) (bool, error) {
	flag, err := s.repo.flags.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get feature flag %s: %w", name, err)
	}
	return flag.Enabled, nil
}

// GetFeatureFlag returns a feature flag by name. A flag that was never stored
// yields ErrNotFound.
func (s *Service) GetFeatureFlag(ctx context.Context, name string) (FeatureFlag, error) {
	flag, err := s.repo.flags.Get(ctx, name)
	if err != nil {
		return FeatureFlag{}, fmt.Errorf("get feature flag: %w", err)
	}
	return flag, nil
}

// SetFeatureFlag updates or creates a feature flag.
func (s *Service) SetFeatureFlag(ctx context.Context, name string, enabled bool) error {
	if err := s.repo.flags.Set(ctx, FeatureFlag{Name: name, Enabled: enabled}); err != nil {
		return fmt.Errorf("set feature flag: %w", err)
	}
	return nil
}

// ListFeatureFlags returns all feature flags.
func (s *Service) ListFeatureFlags(ctx context.Context) ([]FeatureFlag, error) {
	flags, err := s.repo.flags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feature flags: %w", err)
	}
	return flags, nil
}

// GetPlan retrieves a stored plan by ID.
func (s *Service) GetPlan(ctx context.Context, id int64) (StoredPlan, error) {
	stored, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("get plan: %w", err)
	}
	return stored, nil
}

// RecentPlans returns the most recently generated plans.
func (s *Service) RecentPlans(ctx context.Context) ([]StoredPlan, error) {
	plans, err := s.repo.plans.List(ctx, recentPlanLimit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
