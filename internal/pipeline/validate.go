package pipeline

import "fmt"

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity
	Field    string
	Message  string
}

// Summary counts issues by severity.
type Summary struct {
	Errors   int
	Warnings int
	Info     int
}

// ValidationResult is the outcome of a validation pass. Validation never
// returns Go errors; callers inspect the result and decide how to react.
type ValidationResult struct {
	Issues  []Issue
	Summary Summary
}

// IsValid reports whether the validated value can enter the pipeline.
// Warnings and info findings never block.
func (r ValidationResult) IsValid() bool {
	return r.Summary.Errors == 0
}

func (r *ValidationResult) add(severity Severity, field, message string) {
	r.Issues = append(r.Issues, Issue{Severity: severity, Field: field, Message: message})
	switch severity {
	case SeverityError:
		r.Summary.Errors++
	case SeverityWarning:
		r.Summary.Warnings++
	case SeverityInfo:
		r.Summary.Info++
	}
}

// Soft-check boundaries.
const (
	shortWorkoutMin   = 15
	lowEnergyMax      = 3
	highSorenessMin   = 8
	minValidDuration  = 1
	minValidEnergy    = 1
	maxValidEnergy    = 10
	maxSorenessRating = 10
)

// ValidateContext checks the structural completeness of a context. It is the
// single gate of the pipeline: nothing downstream runs on an invalid context.
func ValidateContext(c Context) ValidationResult {
	var result ValidationResult

	validateProfile(&result, c.Profile)
	validateWorkout(&result, c.Workout)
	validatePreferences(&result, c.Preferences)

	// Domain-specific soft checks. These inform, but never block.
	if c.Workout.DurationMin >= minValidDuration && c.Workout.DurationMin < shortWorkoutMin {
		result.add(SeverityInfo, "workout.duration",
			"workout is shorter than 15 minutes, recommendations may be limited")
	}
	if c.Workout.EnergyLevel >= minValidEnergy && c.Workout.EnergyLevel <= lowEnergyMax {
		result.add(SeverityWarning, "workout.energyLevel",
			"energy level is very low, consider a lighter session")
	}
	if c.Workout.Soreness != nil && c.Workout.Soreness.Rating >= highSorenessMin {
		result.add(SeverityWarning, "workout.soreness",
			"soreness is high, recovery-focused work is advised")
	}
	if c.Profile.FitnessLevel == FitnessAdvanced && c.Profile.WorkoutIntensity == "" {
		result.add(SeverityWarning, "profile.workoutIntensity",
			"advanced athlete has no calculated workout intensity")
	}

	return result
}

func validateProfile(result *ValidationResult, p Profile) {
	if p.FitnessLevel == "" {
		result.add(SeverityError, "profile.fitnessLevel", "fitness level is required")
	}
	if p.ExperienceLevel == "" {
		result.add(SeverityError, "profile.experienceLevel", "experience level is required")
	}
	if p.PrimaryGoal == "" {
		result.add(SeverityError, "profile.primaryGoal", "primary goal is required")
	}
	if len(p.PreferredActivities) == 0 {
		result.add(SeverityError, "profile.preferredActivities", "at least one preferred activity is required")
	}
	if len(p.AvailableEquipment) == 0 {
		result.add(SeverityError, "profile.availableEquipment", "available equipment is required")
	}
}

func validateWorkout(result *ValidationResult, w Workout) {
	if w.Focus == "" {
		result.add(SeverityError, "workout.focus", "focus is required")
	}
	if w.DurationMin < minValidDuration {
		result.add(SeverityError, "workout.duration", "duration must be a positive number of minutes")
	}
	if w.EnergyLevel < minValidEnergy || w.EnergyLevel > maxValidEnergy {
		result.add(SeverityError, "workout.energyLevel", "energy level must be between 1 and 10")
	}
	if len(w.Equipment) == 0 {
		result.add(SeverityError, "workout.equipment", "workout equipment selection is required")
	}
	if w.Soreness != nil && (w.Soreness.Rating < 0 || w.Soreness.Rating > maxSorenessRating) {
		result.add(SeverityError, "workout.soreness", "soreness rating must be between 0 and 10")
	}
}

func validatePreferences(result *ValidationResult, p Preferences) {
	if len(p.WorkoutStyle) == 0 {
		result.add(SeverityError, "preferences.workoutStyle", "at least one workout style is required")
	}
	if p.IntensityPreference == "" {
		result.add(SeverityError, "preferences.intensityPreference", "intensity preference is required")
	}
	switch p.AssistLevel {
	case AssistLow, AssistModerate, AssistFull:
	default:
		result.add(SeverityError, "preferences.assistLevel", "AI assistance level must be low, moderate, or full")
	}
}

// ValidateRecommendations checks a recommendation set independently of any
// context. An empty set is itself an error.
func ValidateRecommendations(recs []Recommendation) ValidationResult {
	var result ValidationResult

	if len(recs) == 0 {
		result.add(SeverityError, "recommendations", "no recommendations were produced")
		return result
	}

	for i, rec := range recs {
		field := fmt.Sprintf("recommendations[%d]", i)
		if !validRecType(rec.Type) {
			result.add(SeverityError, field+".type", fmt.Sprintf("unknown recommendation type %q", rec.Type))
		}
		if rec.Content == "" {
			result.add(SeverityError, field+".content", "content is required")
		}
		if rec.Confidence < 0 || rec.Confidence > 1 {
			result.add(SeverityError, field+".confidence", "confidence must be within [0,1]")
		}
		if !validSource(rec.Source) {
			result.add(SeverityError, field+".source", fmt.Sprintf("unknown source %q", rec.Source))
		}
		if !validPriority(rec.Priority) {
			result.add(SeverityError, field+".priority", fmt.Sprintf("unknown priority %q", rec.Priority))
		}
	}

	return result
}

// ValidateConfig checks configuration invariants.
func ValidateConfig(cfg Config) ValidationResult {
	var result ValidationResult

	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		result.add(SeverityError, "config.confidenceThreshold", "confidence threshold must be within [0,1]")
	}
	if cfg.MaxRecommendations < 1 {
		result.add(SeverityError, "config.maxRecommendations", "max recommendations must be at least 1")
	}
	if cfg.AnalysisTimeout <= 0 {
		result.add(SeverityError, "config.analysisTimeout", "analysis timeout must be positive")
	}

	return result
}

func validRecType(t RecType) bool {
	switch t {
	case RecExercise, RecIntensity, RecDuration, RecEquipment, RecFocus, RecGeneral:
		return true
	default:
		return false
	}
}

func validSource(s Source) bool {
	switch s {
	case SourceProfile, SourceWorkout, SourceCombined:
		return true
	default:
		return false
	}
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
