package evaluators

import (
	"context"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Energy analyzes the reported energy level and suggests intensity
// adjustments for the session.
type Energy struct{}

func (Energy) Name() string { return "energy" }

func (Energy) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	metadata := map[string]any{
		"energy_level": gc.EnergyLevel,
		"bucket":       gc.EnergyBucket,
	}

	var insights []pipeline.Insight
	switch gc.EnergyBucket {
	case "low":
		insights = append(insights, pipeline.Insight{
			Recommendation: "Energy is low today - reduce intensity and treat this as a technique session",
			Type:           pipeline.RecIntensity,
			Confidence:     0.85,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
		insights = append(insights, pipeline.Insight{
			Recommendation: "Keep working sets well short of failure while energy is low",
			Type:           pipeline.RecGeneral,
			Confidence:     0.72,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "moderate_low":
		insights = append(insights, pipeline.Insight{
			Recommendation: "Moderate-low energy - favor steady pacing over top-end effort",
			Type:           pipeline.RecIntensity,
			Confidence:     0.75,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "moderate", "moderate_high":
		insights = append(insights, pipeline.Insight{
			Recommendation: "Solid energy level - standard working sets at your usual intensity are appropriate",
			Type:           pipeline.RecIntensity,
			Confidence:     0.75,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "high":
		insights = append(insights, pipeline.Insight{
			Recommendation: "High energy - a good day to push intensity or add a finisher",
			Type:           pipeline.RecIntensity,
			Confidence:     0.8,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	}

	return insights, nil
}
