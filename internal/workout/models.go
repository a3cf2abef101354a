// Package workout turns pipeline output into concrete workout plans, either
// through an LLM or the built-in fallback generator, and persists the results.
package workout

import (
	"time"

	"github.com/mvirta/fitpipe/internal/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sqlite.ErrNotFound

// Plan workout type constants.
const (
	PlanTypeStrength    = "strength"
	PlanTypeCardio      = "cardio"
	PlanTypeFlexibility = "flexibility"
	PlanTypeHIIT        = "hiit"
)

// Plan provenance source constants.
const (
	PlanSourceLLM       = "llm"
	PlanSourceGenerated = "generated"
)

// PlannedExercise is a single exercise slot in a plan. Either Sets and Reps
// or DurationSec is populated depending on whether the exercise is rep-based
// or timed.
type PlannedExercise struct {
	Name        string   `json:"name"`
	Sets        int      `json:"sets"`
	Reps        int      `json:"reps"`
	DurationSec int      `json:"duration_sec,omitempty"`
	Equipment   []string `json:"equipment,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// RestPeriods holds the rest prescription for a plan in seconds.
type RestPeriods struct {
	BetweenSetsSec      int `json:"between_sets_sec"`
	BetweenExercisesSec int `json:"between_exercises_sec"`
}

// Provenance records how a plan was produced.
type Provenance struct {
	Source          string   `json:"source"`
	Prompt          string   `json:"prompt"`
	Recommendations []string `json:"recommendations"`
}

// Plan is a complete generated workout plan. Equipment is the distinct union
// of the equipment its exercises call for.
type Plan struct {
	WorkoutType  string            `json:"workout_type"`
	Focus        string            `json:"focus"`
	Intensity    string            `json:"intensity"`
	DurationMin  int               `json:"duration_min"`
	WarmupMin    int               `json:"warmup_min"`
	CooldownMin  int               `json:"cooldown_min"`
	Exercises    []PlannedExercise `json:"exercises"`
	Rest         RestPeriods       `json:"rest"`
	Equipment    []string          `json:"equipment,omitempty"`
	Notes        []string          `json:"notes,omitempty"`
	TemplateUsed string            `json:"template_used"`
	Provenance   Provenance        `json:"provenance"`
}

// StoredPlan is a persisted plan with its database identity.
type StoredPlan struct {
	ID        int64
	CreatedAt time.Time
	Plan      Plan
}

// FeatureFlag gates optional service behaviour.
type FeatureFlag struct {
	Name    string
	Enabled bool
}
