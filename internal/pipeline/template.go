package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mvirta/fitpipe/internal/errors"
)

// PromptTemplate is a generation template selected for one engine run.
// It is built fresh per run and never persisted.
type PromptTemplate struct {
	// UseCase identifies the selected template.
	UseCase string
	// Text is the rendered prompt with all placeholders substituted.
	Text string
	// Confidence starts at the template base value and is averaged with the
	// mean recommendation confidence during enhancement.
	Confidence float64
}

// Template use case identifiers.
const (
	UseCaseBeginner     = "beginner_workout"
	UseCaseIntermediate = "intermediate_workout"
	UseCaseAdvanced     = "advanced_workout"
	UseCaseRecovery     = "recovery_workout"
	UseCaseEquipment    = "equipment_workout"
)

// baseTemplate is an unrendered template with its base confidence.
type baseTemplate struct {
	text       string
	confidence float64
}

// The five built-in templates. Placeholders are flat tokens substituted
// during rendering; only the equipment template uses {equipment}.
//
//nolint:gochecknoglobals // static template table.
var baseTemplates = map[string]baseTemplate{
	UseCaseBeginner: {
		text: "Create a beginner-friendly {focus} workout lasting {duration} minutes. " +
			"The user reports energy level {energy}/10. Emphasize controlled form, simple movements, " +
			"and clear instructions.\n\nTailor the plan to these recommendations:\n{recommendations}",
		confidence: 0.85,
	},
	UseCaseIntermediate: {
		text: "Create a {focus} workout lasting {duration} minutes for a user with some training experience. " +
			"Energy level is {energy}/10. Balance challenge and recoverability.\n\n" +
			"Tailor the plan to these recommendations:\n{recommendations}",
		confidence: 0.8,
	},
	UseCaseAdvanced: {
		text: "Create a demanding {focus} workout lasting {duration} minutes for an advanced athlete. " +
			"Energy level is {energy}/10. Use advanced progressions and tight rest management.\n\n" +
			"Tailor the plan to these recommendations:\n{recommendations}",
		confidence: 0.82,
	},
	UseCaseRecovery: {
		text: "Create a recovery-focused {focus} session lasting {duration} minutes. " +
			"Energy level is {energy}/10 and the user is sore. Favor mobility, light effort, and blood flow.\n\n" +
			"Tailor the plan to these recommendations:\n{recommendations}",
		confidence: 0.88,
	},
	UseCaseEquipment: {
		text: "Create a {focus} workout lasting {duration} minutes built around this equipment: {equipment}. " +
			"Energy level is {energy}/10. Make every exercise use the listed equipment.\n\n" +
			"Tailor the plan to these recommendations:\n{recommendations}",
		confidence: 0.83,
	},
}

// selectionFactors are derived once per selection.
type selectionFactors struct {
	recoveryNeeded   bool
	equipmentFocused bool
	experienceLevel  FitnessLevel
	focusType        string
	intensityLevel   string
}

// minimum equipment recommendations for the equipment-focused template.
const equipmentFocusMin = 2

// SelectPromptTemplate derives selection factors from the context and ranked
// recommendations, picks a base template, and renders it. The returned
// variables map holds the substituted placeholder values.
//
// Callers are expected to have validated inputs already; validation is
// re-run defensively and a failing result is returned as an error.
func SelectPromptTemplate(c Context, recs []Recommendation, cfg Config) (PromptTemplate, map[string]string, error) {
	if result := ValidateContext(c); !result.IsValid() {
		return PromptTemplate{}, nil, errors.New("cannot select template for invalid context")
	}
	if result := ValidateRecommendations(recs); !result.IsValid() {
		return PromptTemplate{}, nil, errors.New("cannot select template for invalid recommendations")
	}

	factors := deriveSelectionFactors(c, recs)
	useCase := chooseUseCase(factors)
	base := baseTemplates[useCase]

	variables := map[string]string{
		"focus":     c.Workout.Focus,
		"duration":  strconv.Itoa(c.Workout.DurationMin),
		"energy":    strconv.Itoa(c.Workout.EnergyLevel),
		"equipment": strings.Join(c.Workout.Equipment, ", "),
	}

	enhanced := enhanceRecommendations(recs, cfg.ConfidenceThreshold)
	text := renderTemplate(base.text, variables, enhanced.bullets)

	confidence := base.confidence
	if enhanced.count > 0 {
		confidence = (base.confidence + enhanced.meanConfidence) / 2
	}

	return PromptTemplate{
		UseCase:    useCase,
		Text:       text,
		Confidence: confidence,
	}, variables, nil
}

// deriveSelectionFactors computes the template selection signals.
func deriveSelectionFactors(c Context, recs []Recommendation) selectionFactors {
	factors := selectionFactors{
		recoveryNeeded:   false,
		equipmentFocused: false,
		experienceLevel:  c.Profile.FitnessLevel,
		focusType:        c.Workout.Focus,
		intensityLevel:   c.Workout.Intensity,
	}

	equipmentRecs := 0
	equipmentConfident := true
	for _, rec := range recs {
		if rec.Type == RecFocus && rec.Priority == PriorityHigh &&
			strings.Contains(strings.ToLower(rec.Content), "recovery") {
			factors.recoveryNeeded = true
		}
		if rec.Type == RecEquipment {
			equipmentRecs++
			if rec.Confidence < defaultInsightConfidence {
				equipmentConfident = false
			}
		}
	}
	factors.equipmentFocused = equipmentRecs >= equipmentFocusMin && equipmentConfident

	return factors
}

// chooseUseCase applies the selection precedence: recovery, then equipment
// focus, then experience tier.
func chooseUseCase(factors selectionFactors) string {
	if factors.recoveryNeeded {
		return UseCaseRecovery
	}
	if factors.equipmentFocused {
		return UseCaseEquipment
	}
	switch factors.experienceLevel {
	case FitnessBeginner, FitnessNovice:
		return UseCaseBeginner
	case FitnessAdvanced:
		return UseCaseAdvanced
	case FitnessIntermediate, FitnessAdaptive:
		return UseCaseIntermediate
	default:
		return UseCaseIntermediate
	}
}

// enhancedRecommendations is the rendered bullet list plus its statistics.
type enhancedRecommendations struct {
	bullets        string
	count          int
	meanConfidence float64
}

// enhanceRecommendations renders recommendations at or above the threshold as
// a bullet list, ordered by the same priority-then-confidence rule as the
// strategy.
func enhanceRecommendations(recs []Recommendation, threshold float64) enhancedRecommendations {
	confident := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.Confidence >= threshold {
			confident = append(confident, rec)
		}
	}
	sortRecommendations(confident)

	if len(confident) == 0 {
		return enhancedRecommendations{
			bullets:        "- No specific recommendations; use sensible defaults.",
			count:          0,
			meanConfidence: 0,
		}
	}

	var builder strings.Builder
	total := 0.0
	for i, rec := range confident {
		if i > 0 {
			builder.WriteByte('\n')
		}
		fmt.Fprintf(&builder, "- %s", rec.Content)
		total += rec.Confidence
	}

	return enhancedRecommendations{
		bullets:        builder.String(),
		count:          len(confident),
		meanConfidence: total / float64(len(confident)),
	}
}

// renderTemplate substitutes all placeholders in one pass.
func renderTemplate(text string, variables map[string]string, recommendations string) string {
	replacer := strings.NewReplacer(
		"{focus}", variables["focus"],
		"{duration}", variables["duration"],
		"{energy}", variables["energy"],
		"{equipment}", variables["equipment"],
		"{recommendations}", recommendations,
	)
	return replacer.Replace(text)
}
