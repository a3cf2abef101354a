package workout

import (
	"math/rand/v2"
	"testing"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// testRand returns a deterministic random source for generator tests.
func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testContext() pipeline.Context {
	return pipeline.Context{
		Profile: pipeline.Profile{
			FitnessLevel:        pipeline.FitnessIntermediate,
			ExperienceLevel:     "Some Experience",
			PrimaryGoal:         "build_muscle",
			PreferredActivities: []string{"strength_training"},
			AvailableEquipment:  []string{"dumbbells"},
			WorkoutIntensity:    pipeline.IntensityModerate,
		},
		Workout: pipeline.Workout{
			Focus:          "strength",
			DurationMin:    45,
			DurationBucket: "standard",
			EnergyLevel:    7,
			EnergyBucket:   "moderate",
			Equipment:      []string{"dumbbells"},
		},
		Preferences: pipeline.Preferences{
			WorkoutStyle:        []string{"guided"},
			IntensityPreference: "moderate",
			AssistLevel:         pipeline.AssistModerate,
		},
	}
}

func testTemplate() pipeline.PromptTemplate {
	return pipeline.PromptTemplate{
		UseCase:    pipeline.UseCaseIntermediate,
		Text:       "Create a strength workout lasting 45 minutes.",
		Confidence: 0.8,
	}
}

func testRecommendations() []pipeline.Recommendation {
	return []pipeline.Recommendation{
		{
			Type:       pipeline.RecFocus,
			Content:    "structure the main block around strength",
			Confidence: 0.82,
			Source:     pipeline.SourceCombined,
			Priority:   pipeline.PriorityHigh,
		},
	}
}

func TestGeneratorGenerate(t *testing.T) {
	t.Parallel()

	gen := newGenerator(pipeline.DefaultConfig(), testRand())
	plan, err := gen.Generate(testContext(), testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if plan.WorkoutType != PlanTypeStrength {
		t.Errorf("WorkoutType = %q, want %q", plan.WorkoutType, PlanTypeStrength)
	}
	if len(plan.Exercises) < minExercisesPerPlan || len(plan.Exercises) > experiencedCap {
		t.Errorf("got %d exercises, want between %d and %d",
			len(plan.Exercises), minExercisesPerPlan, experiencedCap)
	}
	if plan.WarmupMin != 5 {
		t.Errorf("WarmupMin = %d, want 5", plan.WarmupMin)
	}
	if plan.CooldownMin != 5 {
		t.Errorf("CooldownMin = %d, want 5", plan.CooldownMin)
	}
	if plan.Rest.BetweenExercisesSec != 60 {
		t.Errorf("BetweenExercisesSec = %d, want 60", plan.Rest.BetweenExercisesSec)
	}
	if plan.Rest.BetweenSetsSec != 42 {
		t.Errorf("BetweenSetsSec = %d, want 42", plan.Rest.BetweenSetsSec)
	}
	if plan.Provenance.Source != PlanSourceGenerated {
		t.Errorf("Provenance.Source = %q, want %q", plan.Provenance.Source, PlanSourceGenerated)
	}
	if plan.TemplateUsed != pipeline.UseCaseIntermediate {
		t.Errorf("TemplateUsed = %q, want %q", plan.TemplateUsed, pipeline.UseCaseIntermediate)
	}

	// Every selected exercise must fit the available equipment.
	for _, exercise := range plan.Exercises {
		for _, item := range exercise.Equipment {
			if item != "dumbbells" {
				t.Errorf("exercise %q requires unavailable equipment %q", exercise.Name, item)
			}
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	first, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(testContext(), testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(testContext(), testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(first.Exercises) != len(second.Exercises) {
		t.Fatalf("plan sizes differ: %d vs %d", len(first.Exercises), len(second.Exercises))
	}
	for i := range first.Exercises {
		if first.Exercises[i].Name != second.Exercises[i].Name {
			t.Errorf("exercise %d differs: %q vs %q", i, first.Exercises[i].Name, second.Exercises[i].Name)
		}
	}
}

func TestGeneratorIncludesRecommendedExercises(t *testing.T) {
	t.Parallel()

	recs := append(testRecommendations(), pipeline.Recommendation{
		Type:       pipeline.RecExercise,
		Content:    "Renegade Row: 3 sets of 8 reps using dumbbells",
		Confidence: 0.85,
		Source:     pipeline.SourceCombined,
		Priority:   pipeline.PriorityHigh,
	})

	plan, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(testContext(), recs, testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(plan.Exercises) == 0 || plan.Exercises[0].Name != "Renegade Row" {
		t.Errorf("recommended exercise not placed first: %+v", plan.Exercises)
	}
	if plan.Exercises[0].Sets != 3 || plan.Exercises[0].Reps != 8 {
		t.Errorf("recommended exercise dosage = %d x %d, want 3 x 8",
			plan.Exercises[0].Sets, plan.Exercises[0].Reps)
	}
}

func TestGeneratorFillsShortPool(t *testing.T) {
	t.Parallel()

	// An advanced 90-minute flexibility plan targets fifteen slots, but the
	// bodyweight flexibility pool only has six distinct entries.
	c := testContext()
	c.Profile.FitnessLevel = pipeline.FitnessAdvanced
	c.Profile.AvailableEquipment = nil
	c.Workout.Focus = "flexibility"
	c.Workout.DurationMin = 90
	c.Workout.DurationBucket = "long"
	c.Workout.Equipment = nil

	plan, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(c, testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(plan.Exercises) != advancedExerciseCap {
		t.Fatalf("got %d exercises, want %d", len(plan.Exercises), advancedExerciseCap)
	}

	// The extra slots repeat the pool's first entry.
	counts := map[string]int{}
	for _, exercise := range plan.Exercises {
		counts[exercise.Name]++
	}
	if len(counts) != 6 {
		t.Errorf("distinct exercises = %d, want 6", len(counts))
	}
	if got, want := counts["Cat-Cow Stretch"], advancedExerciseCap-5; got != want {
		t.Errorf("Cat-Cow Stretch appears %d times, want %d", got, want)
	}
}

func TestGeneratorIntensityAndEquipment(t *testing.T) {
	t.Parallel()

	plan, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(testContext(), testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if plan.Intensity != string(pipeline.IntensityModerate) {
		t.Errorf("Intensity = %q, want %q", plan.Intensity, pipeline.IntensityModerate)
	}

	// The plan equipment is the distinct union over its exercises. The
	// dumbbell context pulls the dumbbell exercises into the pool.
	want := map[string]bool{}
	for _, exercise := range plan.Exercises {
		for _, item := range exercise.Equipment {
			want[item] = true
		}
	}
	if len(plan.Equipment) != len(want) {
		t.Fatalf("Equipment = %v, want %d distinct items", plan.Equipment, len(want))
	}
	for _, item := range plan.Equipment {
		if !want[item] {
			t.Errorf("Equipment lists %q, absent from every exercise", item)
		}
	}
	if !want["dumbbells"] {
		t.Errorf("Equipment = %v, want dumbbells included", plan.Equipment)
	}
}

func TestGeneratorSafetyNotes(t *testing.T) {
	t.Parallel()

	c := testContext()
	c.Profile.Injuries = []string{"lower_back"}
	c.Workout.Soreness = &pipeline.Soreness{Rating: 8, Bucket: "significant"}

	plan, err := newGenerator(pipeline.DefaultConfig(), testRand()).
		Generate(c, testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(plan.Notes) < 2 {
		t.Fatalf("Notes = %v, want injury and soreness notes", plan.Notes)
	}

	// Disabling safety checks drops both notes.
	cfg := pipeline.DefaultConfig()
	cfg.SafetyChecks = false
	plan, err = newGenerator(cfg, testRand()).Generate(c, testRecommendations(), testTemplate())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(plan.Notes) != 0 {
		t.Errorf("Notes = %v, want none with safety checks off", plan.Notes)
	}
}

func TestTargetExerciseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration int
		level    pipeline.FitnessLevel
		want     int
	}{
		{45, pipeline.FitnessIntermediate, 9},
		{10, pipeline.FitnessIntermediate, 4},
		{90, pipeline.FitnessBeginner, 8},
		{90, pipeline.FitnessIntermediate, 12},
		{90, pipeline.FitnessAdvanced, 15},
		{90, pipeline.FitnessAdaptive, 10},
	}
	for _, tt := range tests {
		if got := targetExerciseCount(tt.duration, tt.level); got != tt.want {
			t.Errorf("targetExerciseCount(%d, %s) = %d, want %d", tt.duration, tt.level, got, tt.want)
		}
	}
}

func TestRestPeriods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     pipeline.FitnessLevel
		intensity string
		want      RestPeriods
	}{
		{"intermediate", pipeline.FitnessIntermediate, "moderate", RestPeriods{42, 60}},
		{"beginner", pipeline.FitnessBeginner, "moderate", RestPeriods{63, 90}},
		{"advanced", pipeline.FitnessAdvanced, "moderate", RestPeriods{32, 45}},
		{"light preference", pipeline.FitnessIntermediate, "light", RestPeriods{50, 72}},
		{"intense preference", pipeline.FitnessIntermediate, "intense", RestPeriods{34, 48}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := testContext()
			c.Profile.FitnessLevel = tt.level
			c.Preferences.IntensityPreference = tt.intensity
			if got := restPeriods(c); got != tt.want {
				t.Errorf("restPeriods() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanWorkoutType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		focus     string
		intensity string
		want      string
	}{
		{"strength", "moderate", PlanTypeStrength},
		{"cardio", "moderate", PlanTypeCardio},
		{"endurance_training", "moderate", PlanTypeCardio},
		{"flexibility", "moderate", PlanTypeFlexibility},
		{"mobility_work", "moderate", PlanTypeFlexibility},
		{"strength", "intense", PlanTypeHIIT},
	}
	for _, tt := range tests {
		c := testContext()
		c.Workout.Focus = tt.focus
		c.Preferences.IntensityPreference = tt.intensity
		if got := planWorkoutType(c); got != tt.want {
			t.Errorf("planWorkoutType(focus=%q, intensity=%q) = %q, want %q",
				tt.focus, tt.intensity, got, tt.want)
		}
	}
}
