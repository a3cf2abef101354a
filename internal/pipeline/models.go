// Package pipeline implements the workout recommendation pipeline: context
// normalization, validation, parallel domain analysis, recommendation ranking,
// and prompt template selection.
package pipeline

// FitnessLevel is the canonical fitness classification used internally.
// Presentation strings such as "New to Exercise" are mapped to these values at
// context-build time and never stored.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessNovice       FitnessLevel = "novice"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
	FitnessAdaptive     FitnessLevel = "adaptive"
)

// Intensity is the calculated workout intensity for a profile.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// AssistLevel controls how much AI assistance the user wants.
type AssistLevel string

const (
	AssistLow      AssistLevel = "low"
	AssistModerate AssistLevel = "moderate"
	AssistFull     AssistLevel = "full"
)

// RecType classifies a recommendation.
type RecType string

const (
	RecExercise  RecType = "exercise"
	RecIntensity RecType = "intensity"
	RecDuration  RecType = "duration"
	RecEquipment RecType = "equipment"
	RecFocus     RecType = "focus"
	RecGeneral   RecType = "general"
)

// Source indicates which side of the context produced a recommendation.
type Source string

const (
	SourceProfile  Source = "profile"
	SourceWorkout  Source = "workout"
	SourceCombined Source = "combined"
)

// Priority is the derived ranking tier of a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Confidence cutoffs for priority derivation.
const (
	highConfidenceCutoff   = 0.8
	mediumConfidenceCutoff = 0.6
)

// PriorityFromConfidence derives the priority tier from a confidence value.
func PriorityFromConfidence(confidence float64) Priority {
	switch {
	case confidence >= highConfidenceCutoff:
		return PriorityHigh
	case confidence >= mediumConfidenceCutoff:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Weight returns the sort weight of a priority tier.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Profile is the normalized profile slice of a Context.
type Profile struct {
	FitnessLevel        FitnessLevel
	ExperienceLevel     string
	PrimaryGoal         string
	Injuries            []string
	PreferredActivities []string
	AvailableEquipment  []string
	AvailableLocations  []string
	WorkoutIntensity    Intensity
}

// Soreness captures the user's reported soreness for the current workout.
type Soreness struct {
	Rating int
	Bucket string
	Areas  []string
}

// Workout is the normalized per-workout slice of a Context.
type Workout struct {
	Focus          string
	DurationMin    int
	DurationBucket string
	EnergyLevel    int
	EnergyBucket   string
	Intensity      string
	Equipment      []string
	TargetAreas    []string
	Soreness       *Soreness
}

// Preferences is the user preference slice of a Context.
type Preferences struct {
	WorkoutStyle        []string
	TimePreference      string
	IntensityPreference string
	AdvancedFeatures    bool
	AssistLevel         AssistLevel
}

// Context is the validated unit of work passed through the pipeline. It is
// treated as an immutable value: every downstream component receives it by
// value and never mutates it.
type Context struct {
	Profile     Profile
	Workout     Workout
	Preferences Preferences
}

// Recommendation is the atomic output unit of the pipeline.
type Recommendation struct {
	Type       RecType
	Content    string
	Confidence float64
	Source     Source
	Priority   Priority
	// Context carries free-form metadata from the originating evaluator.
	// Its shape is evaluator-specific and not consumed structurally.
	Context map[string]any
}
