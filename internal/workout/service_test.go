package workout

import (
	"context"
	"testing"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/pipeline"
	"github.com/mvirta/fitpipe/internal/sqlite"
	"github.com/mvirta/fitpipe/internal/testhelpers"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	return NewService(db, logger, "")
}

func testPlanRequest() PlanRequest {
	return PlanRequest{
		Profile: pipeline.RawProfile{
			ExperienceLevel:     "Some Experience",
			PrimaryGoal:         "Build Muscle",
			PreferredActivities: []string{"Strength Training"},
			AvailableEquipment:  []string{"Dumbbells"},
		},
		Workout: pipeline.RawWorkout{
			Focus:       "Strength",
			DurationMin: 45,
			EnergyLevel: 7,
			Equipment:   []string{"Dumbbells"},
		},
		Preferences: pipeline.RawPreferences{
			WorkoutStyle:        []string{"Guided"},
			IntensityPreference: "Moderate",
			AssistLevel:         "Moderate",
		},
	}
}

func TestServiceGeneratePlan(t *testing.T) {
	t.Parallel()
	service := newTestService(t)
	ctx := context.Background()

	result, err := service.GeneratePlan(ctx, testPlanRequest())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	if result.Stored.ID == 0 {
		t.Error("stored plan has no ID")
	}
	plan := result.Stored.Plan
	if plan.Provenance.Source != PlanSourceGenerated {
		t.Errorf("Provenance.Source = %q, want %q without an API key",
			plan.Provenance.Source, PlanSourceGenerated)
	}
	if len(plan.Exercises) == 0 {
		t.Error("plan has no exercises")
	}
	if len(result.Recommendations) == 0 {
		t.Error("result has no recommendations")
	}
	if result.Template.UseCase != pipeline.UseCaseIntermediate {
		t.Errorf("Template.UseCase = %q, want %q",
			result.Template.UseCase, pipeline.UseCaseIntermediate)
	}

	// The persisted plan round-trips.
	stored, err := service.GetPlan(ctx, result.Stored.ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if stored.Plan.WorkoutType != plan.WorkoutType || len(stored.Plan.Exercises) != len(plan.Exercises) {
		t.Errorf("stored plan differs: %+v vs %+v", stored.Plan, plan)
	}

	recent, err := service.RecentPlans(ctx)
	if err != nil {
		t.Fatalf("RecentPlans: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != result.Stored.ID {
		t.Errorf("RecentPlans = %+v, want the generated plan", recent)
	}
}

func TestServiceGeneratePlanRejectsIncompleteInput(t *testing.T) {
	t.Parallel()
	service := newTestService(t)

	req := testPlanRequest()
	req.Workout.Equipment = nil

	if _, err := service.GeneratePlan(context.Background(), req); err == nil {
		t.Fatal("expected error for incomplete input, got nil")
	}
}

func TestServiceFeatureFlags(t *testing.T) {
	t.Parallel()
	service := newTestService(t)
	ctx := context.Background()

	// Missing flags read as disabled.
	enabled, err := service.flagEnabled(ctx, FlagLLMGeneration)
	if err != nil {
		t.Fatalf("flagEnabled: %v", err)
	}
	if enabled {
		t.Error("missing flag reads as enabled")
	}

	if err = service.SetFeatureFlag(ctx, FlagLLMGeneration, true); err != nil {
		t.Fatalf("SetFeatureFlag: %v", err)
	}
	if enabled, err = service.flagEnabled(ctx, FlagLLMGeneration); err != nil || !enabled {
		t.Errorf("flagEnabled = (%v, %v), want (true, nil)", enabled, err)
	}

	flags, err := service.ListFeatureFlags(ctx)
	if err != nil {
		t.Fatalf("ListFeatureFlags: %v", err)
	}
	if len(flags) != 1 || flags[0].Name != FlagLLMGeneration || !flags[0].Enabled {
		t.Errorf("ListFeatureFlags = %+v", flags)
	}
}

func TestServiceGetPlanNotFound(t *testing.T) {
	t.Parallel()
	service := newTestService(t)

	_, err := service.GetPlan(context.Background(), 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
