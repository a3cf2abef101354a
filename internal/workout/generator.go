package workout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Fallback generation constants.
const (
	// Exercise count sizing.
	minutesPerExercise  = 5
	minExercisesPerPlan = 4
	beginnerExerciseCap = 8
	standardExerciseCap = 10
	experiencedCap      = 12
	advancedExerciseCap = 15

	// Rest prescription in seconds.
	baseRestSec         = 60
	beginnerRestSec     = 90
	advancedRestSec     = 45
	lightRestFactor     = 1.2
	intenseRestFactor   = 0.8
	betweenSetsFraction = 0.7

	// Warmup and cooldown sizing.
	warmupFraction   = 0.10
	cooldownFraction = 0.08
	minWarmupMin     = 5
	minCooldownMin   = 5

	// Notes are injected for recommendations at or above this confidence.
	noteworthyConfidence = 0.9

	// Exercise recommendations below this confidence are not parsed into slots.
	parseableConfidence = 0.8
)

// generator produces deterministic fallback plans without an LLM. The random
// source only affects which library exercises fill the remaining slots, so
// tests inject a seeded source.
type generator struct {
	cfg pipeline.Config
	rng *rand.Rand
}

func newGenerator(cfg pipeline.Config, rng *rand.Rand) *generator {
	return &generator{cfg: cfg, rng: rng}
}

// Generate builds a plan from the analysis context, ranked recommendations,
// and the selected prompt template.
func (g *generator) Generate(
	c pipeline.Context,
	recs []pipeline.Recommendation,
	template pipeline.PromptTemplate,
) (Plan, error) {
	workoutType := planWorkoutType(c)

	exercises, err := g.selectExercises(c, recs, workoutType)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		WorkoutType:  workoutType,
		Focus:        c.Workout.Focus,
		Intensity:    planIntensity(c),
		DurationMin:  c.Workout.DurationMin,
		WarmupMin:    scaledMinutes(c.Workout.DurationMin, warmupFraction, minWarmupMin),
		CooldownMin:  scaledMinutes(c.Workout.DurationMin, cooldownFraction, minCooldownMin),
		Exercises:    exercises,
		Rest:         restPeriods(c),
		Equipment:    aggregateEquipment(exercises),
		Notes:        g.buildNotes(c, recs),
		TemplateUsed: template.UseCase,
		Provenance: Provenance{
			Source:          PlanSourceGenerated,
			Prompt:          template.Text,
			Recommendations: recommendationContents(recs),
		},
	}

	return plan, nil
}

// selectExercises fills the plan slots, preferring exercises named by the
// recommendations and topping up from the library.
func (g *generator) selectExercises(
	c pipeline.Context,
	recs []pipeline.Recommendation,
	workoutType string,
) ([]PlannedExercise, error) {
	target := targetExerciseCount(c.Workout.DurationMin, c.Profile.FitnessLevel)

	var selected []PlannedExercise
	seen := map[string]bool{}
	for _, rec := range recs {
		if rec.Type != pipeline.RecExercise || rec.Confidence < parseableConfidence {
			continue
		}
		parsed := parseExerciseRecommendation(rec.Content)
		if parsed == nil || seen[parsed.Name] || len(selected) >= target {
			continue
		}
		seen[parsed.Name] = true
		selected = append(selected, *parsed)
	}

	pool := filterLibrary(workoutType, c.Workout.Equipment)
	if len(pool) == 0 {
		if len(selected) == 0 {
			return nil, fmt.Errorf("no exercises available for %s plan", workoutType)
		}
		return selected, nil
	}

	first := pool[0]
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	for _, entry := range pool {
		if len(selected) >= target {
			break
		}
		if seen[entry.name] {
			continue
		}
		seen[entry.name] = true
		selected = append(selected, entry.planned())
	}

	// A pool smaller than the plan repeats its first entry for extra rounds.
	for len(selected) < target {
		selected = append(selected, first.planned())
	}

	return selected, nil
}

// buildNotes assembles plan notes in a fixed order: safety first, then
// high-confidence recommendations, then guidance for new trainees.
func (g *generator) buildNotes(c pipeline.Context, recs []pipeline.Recommendation) []string {
	var notes []string

	if g.cfg.SafetyChecks {
		if len(c.Profile.Injuries) > 0 {
			notes = append(notes, fmt.Sprintf(
				"Reported injuries: %s. Skip or substitute any exercise that aggravates them.",
				strings.Join(c.Profile.Injuries, ", ")))
		}
		if c.Workout.Soreness != nil && c.Workout.Soreness.Rating >= 7 {
			notes = append(notes, "Soreness is high. Keep effort light and stop if pain sharpens.")
		}
	}

	for _, rec := range recs {
		if rec.Confidence >= noteworthyConfidence {
			notes = append(notes, rec.Content)
		}
	}

	if c.Profile.FitnessLevel == pipeline.FitnessBeginner || c.Profile.FitnessLevel == pipeline.FitnessNovice {
		notes = append(notes, "Focus on controlled form over speed. Rest longer between sets if needed.")
	}

	return notes
}

// planWorkoutType derives the plan type from the workout focus and the
// intensity preference.
func planWorkoutType(c pipeline.Context) string {
	focus := c.Workout.Focus
	switch {
	case strings.Contains(focus, "cardio"), strings.Contains(focus, "endurance"),
		strings.Contains(focus, "conditioning"):
		return PlanTypeCardio
	case strings.Contains(focus, "flexibility"), strings.Contains(focus, "mobility"),
		strings.Contains(focus, "stretch"), strings.Contains(focus, "yoga"):
		return PlanTypeFlexibility
	case c.Preferences.IntensityPreference == "intense":
		return PlanTypeHIIT
	default:
		return PlanTypeStrength
	}
}

// planIntensity prefers the per-workout intensity and falls back to the
// profile's calculated intensity.
func planIntensity(c pipeline.Context) string {
	if c.Workout.Intensity != "" {
		return c.Workout.Intensity
	}
	return string(c.Profile.WorkoutIntensity)
}

// aggregateEquipment collects the distinct equipment across the plan's
// exercises, preserving first-seen order.
func aggregateEquipment(exercises []PlannedExercise) []string {
	var equipment []string
	seen := map[string]bool{}
	for _, exercise := range exercises {
		for _, item := range exercise.Equipment {
			if seen[item] {
				continue
			}
			seen[item] = true
			equipment = append(equipment, item)
		}
	}
	return equipment
}

// targetExerciseCount sizes the plan: roughly one exercise per five minutes,
// capped by experience and floored so even short plans have substance.
func targetExerciseCount(durationMin int, level pipeline.FitnessLevel) int {
	count := durationMin / minutesPerExercise

	limit := standardExerciseCap
	switch level {
	case pipeline.FitnessBeginner, pipeline.FitnessNovice:
		limit = beginnerExerciseCap
	case pipeline.FitnessIntermediate:
		limit = experiencedCap
	case pipeline.FitnessAdvanced:
		limit = advancedExerciseCap
	}
	if count > limit {
		count = limit
	}
	if count < minExercisesPerPlan {
		count = minExercisesPerPlan
	}
	return count
}

// restPeriods derives the rest prescription from experience and the stated
// intensity preference.
func restPeriods(c pipeline.Context) RestPeriods {
	base := float64(baseRestSec)
	switch c.Profile.FitnessLevel {
	case pipeline.FitnessBeginner, pipeline.FitnessNovice:
		base = beginnerRestSec
	case pipeline.FitnessAdvanced:
		base = advancedRestSec
	}

	switch c.Preferences.IntensityPreference {
	case "light":
		base *= lightRestFactor
	case "intense":
		base *= intenseRestFactor
	}

	return RestPeriods{
		BetweenSetsSec:      int(math.Round(base * betweenSetsFraction)),
		BetweenExercisesSec: int(math.Round(base)),
	}
}

func scaledMinutes(durationMin int, fraction float64, minimum int) int {
	minutes := int(math.Round(float64(durationMin) * fraction))
	if minutes < minimum {
		return minimum
	}
	return minutes
}

func filterLibrary(workoutType string, equipment []string) []libraryEntry {
	var pool []libraryEntry
	for _, entry := range exerciseLibrary {
		if entry.fitsType(workoutType) && entry.fitsEquipment(equipment) {
			pool = append(pool, entry)
		}
	}
	return pool
}

func recommendationContents(recs []pipeline.Recommendation) []string {
	contents := make([]string, 0, len(recs))
	for _, rec := range recs {
		contents = append(contents, rec.Content)
	}
	return contents
}
