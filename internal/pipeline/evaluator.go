package pipeline

import "context"

// Insight is the raw output unit of a domain evaluator before normalization.
type Insight struct {
	// Recommendation is the human-readable suggestion text.
	Recommendation string
	// Type classifies the insight. Empty defaults to general.
	Type RecType
	// Confidence in [0,1]. Zero means unset and defaults to 0.7.
	Confidence float64
	// Source defaults to combined when empty.
	Source Source
	// Priority is derived from confidence when empty.
	Priority Priority
	// Metadata is an open, evaluator-specific bag.
	Metadata map[string]any
}

// GlobalContext is the synthetic analysis context handed to every domain
// evaluator: the profile plus the current workout selections flattened into
// the shape the evaluators expect. It is a read-only snapshot.
type GlobalContext struct {
	FitnessLevel        FitnessLevel
	ExperienceLevel     string
	PrimaryGoal         string
	Injuries            []string
	PreferredActivities []string
	AvailableEquipment  []string
	WorkoutIntensity    Intensity

	Focus          string
	DurationMin    int
	DurationBucket string
	EnergyLevel    int
	EnergyBucket   string
	Intensity      string
	Equipment      []string
	TargetAreas    []string
	Soreness       *Soreness

	Preferences Preferences
}

// Evaluator analyzes one domain concern and returns raw insights. Evaluators
// must be side-effect free: on timeout their in-flight calls are abandoned.
type Evaluator interface {
	Name() string
	Analyze(ctx context.Context, gc GlobalContext) ([]Insight, error)
}

// ConditionalEvaluator is implemented by evaluators that only apply to some
// contexts, such as the soreness evaluator when no soreness data is present.
type ConditionalEvaluator interface {
	Evaluator
	Applicable(gc GlobalContext) bool
}

// buildGlobalContext flattens a Context into the evaluator input shape.
func buildGlobalContext(c Context) GlobalContext {
	return GlobalContext{
		FitnessLevel:        c.Profile.FitnessLevel,
		ExperienceLevel:     c.Profile.ExperienceLevel,
		PrimaryGoal:         c.Profile.PrimaryGoal,
		Injuries:            c.Profile.Injuries,
		PreferredActivities: c.Profile.PreferredActivities,
		AvailableEquipment:  c.Profile.AvailableEquipment,
		WorkoutIntensity:    c.Profile.WorkoutIntensity,
		Focus:               c.Workout.Focus,
		DurationMin:         c.Workout.DurationMin,
		DurationBucket:      c.Workout.DurationBucket,
		EnergyLevel:         c.Workout.EnergyLevel,
		EnergyBucket:        c.Workout.EnergyBucket,
		Intensity:           c.Workout.Intensity,
		Equipment:           c.Workout.Equipment,
		TargetAreas:         c.Workout.TargetAreas,
		Soreness:            c.Workout.Soreness,
		Preferences:         c.Preferences,
	}
}
