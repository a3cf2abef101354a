package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// CrossComponent looks for interactions between profile and workout slices
// that no single-concern evaluator sees: injuries against the day's focus,
// stated preferences against reported state, and experience against load.
type CrossComponent struct{}

func (CrossComponent) Name() string { return "cross_component" }

func (CrossComponent) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	var insights []pipeline.Insight

	if len(gc.Injuries) > 0 {
		insights = append(insights, pipeline.Insight{
			Recommendation: fmt.Sprintf(
				"Work around reported injuries (%s) - substitute any exercise that loads them",
				strings.Join(gc.Injuries, ", ")),
			Type:       pipeline.RecExercise,
			Confidence: 0.88,
			Source:     pipeline.SourceProfile,
			Metadata:   map[string]any{"injuries": gc.Injuries},
		})
	}

	if gc.Preferences.IntensityPreference == "intense" && gc.EnergyLevel <= 3 {
		insights = append(insights, pipeline.Insight{
			Recommendation: "You prefer intense sessions but energy is low today - dial intensity back this once",
			Type:           pipeline.RecIntensity,
			Confidence:     0.85,
			Source:         pipeline.SourceCombined,
			Metadata: map[string]any{
				"intensity_preference": gc.Preferences.IntensityPreference,
				"energy_level":         gc.EnergyLevel,
			},
		})
	}

	if (gc.FitnessLevel == pipeline.FitnessBeginner || gc.FitnessLevel == pipeline.FitnessNovice) &&
		gc.DurationMin > 60 {
		insights = append(insights, pipeline.Insight{
			Recommendation: "Long sessions are hard to sustain when starting out - consider splitting the time across two days",
			Type:           pipeline.RecDuration,
			Confidence:     0.82,
			Source:         pipeline.SourceCombined,
			Metadata: map[string]any{
				"fitness_level": gc.FitnessLevel,
				"duration_min":  gc.DurationMin,
			},
		})
	}

	if len(insights) == 0 {
		insights = append(insights, pipeline.Insight{
			Recommendation: "Profile and workout selections are consistent - no cross-cutting adjustments needed",
			Type:           pipeline.RecGeneral,
			Confidence:     0.7,
			Source:         pipeline.SourceCombined,
			Metadata:       map[string]any{},
		})
	}

	return insights, nil
}
