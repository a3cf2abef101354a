package pipeline

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/mvirta/fitpipe/internal/errors"
)

// Raw inputs carry presentation-layer strings and unchecked numbers as they
// arrive from the intake form. Numeric fields are float64 so that malformed
// input (NaN) can be detected and degraded to defaults instead of panicking.

// RawProfile is the unprocessed profile input.
type RawProfile struct {
	ExperienceLevel     string
	PrimaryGoal         string
	Injuries            []string
	PreferredActivities []string
	AvailableEquipment  []string
	AvailableLocations  []string
	WorkoutIntensity    string
}

// RawWorkout is the unprocessed per-workout input.
type RawWorkout struct {
	Focus          string
	DurationMin    float64
	EnergyLevel    float64
	Intensity      string
	Equipment      []string
	TargetAreas    []string
	SorenessRating *float64
	SorenessAreas  []string
}

// RawPreferences is the unprocessed preference input.
type RawPreferences struct {
	WorkoutStyle        []string
	TimePreference      string
	IntensityPreference string
	AdvancedFeatures    bool
	AssistLevel         string
}

// Defaults applied when numeric input is malformed.
const (
	defaultDurationMin = 30
	defaultEnergyLevel = 5
)

// Duration bucket boundaries in minutes.
const (
	durationShortMax    = 15
	durationModerateMax = 30
	durationStandardMax = 45
	durationExtendedMax = 60
)

// BuildProfileContext converts a raw profile into the normalized profile
// slice of a Context. It is a pure function of its input apart from warn logs
// for unknown vocabulary.
func BuildProfileContext(ctx context.Context, logger *slog.Logger, raw RawProfile) (Profile, error) {
	if strings.TrimSpace(raw.ExperienceLevel) == "" {
		return Profile{}, errors.New("profile is missing experience level")
	}
	if strings.TrimSpace(raw.PrimaryGoal) == "" {
		return Profile{}, errors.New("profile is missing primary goal")
	}

	level, known := mapExperienceLevel(raw.ExperienceLevel)
	if !known {
		logger.WarnContext(ctx, "unknown experience level, defaulting to intermediate",
			slog.String("experience_level", raw.ExperienceLevel))
	}

	return Profile{
		FitnessLevel:        level,
		ExperienceLevel:     raw.ExperienceLevel,
		PrimaryGoal:         normalizeToken(raw.PrimaryGoal),
		Injuries:            normalizeInjuries(raw.Injuries),
		PreferredActivities: normalizeTokens(raw.PreferredActivities),
		AvailableEquipment:  normalizeTokens(raw.AvailableEquipment),
		AvailableLocations:  normalizeTokens(raw.AvailableLocations),
		WorkoutIntensity:    calculateWorkoutIntensity(raw.WorkoutIntensity, level),
	}, nil
}

// BuildWorkoutContext converts a raw workout into the normalized workout
// slice of a Context. Malformed numeric input degrades to documented defaults.
func BuildWorkoutContext(ctx context.Context, logger *slog.Logger, raw RawWorkout) (Workout, error) {
	if strings.TrimSpace(raw.Focus) == "" {
		return Workout{}, errors.New("workout is missing focus")
	}

	// Zero or negative durations are left as-is so validation can flag them.
	duration := sanitizeNumber(ctx, logger, "duration", raw.DurationMin, defaultDurationMin)
	energy := sanitizeNumber(ctx, logger, "energy level", raw.EnergyLevel, defaultEnergyLevel)
	energy = clampInt(energy, 1, 10)

	workout := Workout{
		Focus:          normalizeToken(raw.Focus),
		DurationMin:    duration,
		DurationBucket: DurationBucket(duration),
		EnergyLevel:    energy,
		EnergyBucket:   EnergyBucket(energy),
		Intensity:      normalizeToken(raw.Intensity),
		Equipment:      normalizeTokens(raw.Equipment),
		TargetAreas:    normalizeTokens(raw.TargetAreas),
		Soreness:       nil,
	}

	if raw.SorenessRating != nil {
		rating := sanitizeNumber(ctx, logger, "soreness rating", *raw.SorenessRating, 0)
		rating = clampInt(rating, 0, 10)
		workout.Soreness = &Soreness{
			Rating: rating,
			Bucket: SorenessBucket(rating),
			Areas:  normalizeTokens(raw.SorenessAreas),
		}
	}

	return workout, nil
}

// BuildPreferences converts raw preferences into the normalized preference
// slice of a Context.
func BuildPreferences(raw RawPreferences) Preferences {
	assist := AssistLevel(normalizeToken(raw.AssistLevel))
	switch assist {
	case AssistLow, AssistModerate, AssistFull:
	default:
		assist = AssistModerate
	}

	return Preferences{
		WorkoutStyle:        normalizeTokens(raw.WorkoutStyle),
		TimePreference:      normalizeToken(raw.TimePreference),
		IntensityPreference: normalizeToken(raw.IntensityPreference),
		AdvancedFeatures:    raw.AdvancedFeatures,
		AssistLevel:         assist,
	}
}

// mapExperienceLevel maps presentation-layer experience strings to the
// canonical fitness level. The second return value reports whether the input
// was recognized; unknown values default to intermediate.
func mapExperienceLevel(experience string) (FitnessLevel, bool) {
	switch normalizeToken(experience) {
	case "new_to_exercise", "beginner": // "Beginner" is a legacy alias.
		return FitnessBeginner, true
	case "novice":
		return FitnessNovice, true
	case "some_experience", "intermediate":
		return FitnessIntermediate, true
	case "advanced_athlete", "advanced":
		return FitnessAdvanced, true
	case "adaptive":
		return FitnessAdaptive, true
	default:
		return FitnessIntermediate, false
	}
}

// calculateWorkoutIntensity derives the profile intensity from the explicit
// value when given, otherwise from the fitness level.
func calculateWorkoutIntensity(explicit string, level FitnessLevel) Intensity {
	switch Intensity(normalizeToken(explicit)) {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return Intensity(normalizeToken(explicit))
	}

	switch level {
	case FitnessBeginner, FitnessNovice:
		return IntensityLow
	case FitnessAdvanced:
		return IntensityHigh
	case FitnessIntermediate, FitnessAdaptive:
		return IntensityModerate
	default:
		return IntensityModerate
	}
}

// DurationBucket maps a duration in minutes to its vocabulary token.
func DurationBucket(minutes int) string {
	switch {
	case minutes <= durationShortMax:
		return "short"
	case minutes <= durationModerateMax:
		return "moderate"
	case minutes <= durationStandardMax:
		return "standard"
	case minutes <= durationExtendedMax:
		return "extended"
	default:
		return "long"
	}
}

// SorenessBucket maps a 0-10 soreness rating to its vocabulary token.
func SorenessBucket(rating int) string {
	switch {
	case rating <= 0:
		return "none"
	case rating <= 2:
		return "minimal"
	case rating <= 4:
		return "mild"
	case rating <= 6:
		return "moderate"
	case rating <= 8:
		return "significant"
	default:
		return "severe"
	}
}

// EnergyBucket maps a 1-10 energy rating to its vocabulary token.
func EnergyBucket(level int) string {
	switch {
	case level <= 3:
		return "low"
	case level <= 5:
		return "moderate_low"
	case level <= 7:
		return "moderate"
	case level <= 8:
		return "moderate_high"
	default:
		return "high"
	}
}

// normalizeToken converts free text to a snake_case vocabulary token.
func normalizeToken(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "_")
}

func normalizeTokens(values []string) []string {
	var tokens []string
	for _, v := range values {
		if token := normalizeToken(v); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// normalizeInjuries normalizes injury strings and drops the "No Injuries"
// placeholder the intake form uses for an empty selection.
func normalizeInjuries(values []string) []string {
	var injuries []string
	for _, token := range normalizeTokens(values) {
		if token == "no_injuries" || token == "none" {
			continue
		}
		injuries = append(injuries, token)
	}
	return injuries
}

// sanitizeNumber rounds a raw numeric input to an int, degrading NaN and
// infinite values to fallback with a warn log.
func sanitizeNumber(ctx context.Context, logger *slog.Logger, field string, value float64, fallback int) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		logger.WarnContext(ctx, "malformed numeric input, using default",
			slog.String("field", field), slog.Int("default", fallback))
		return fallback
	}
	return int(math.Round(value))
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
