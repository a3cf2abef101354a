package evaluators

import (
	"context"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Duration analyzes the available session time and suggests how to spend it.
type Duration struct{}

func (Duration) Name() string { return "duration" }

func (Duration) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	metadata := map[string]any{
		"duration_min": gc.DurationMin,
		"bucket":       gc.DurationBucket,
	}

	var insights []pipeline.Insight
	switch gc.DurationBucket {
	case "short":
		insights = append(insights, pipeline.Insight{
			Recommendation: "Short session - use supersets or a circuit to keep density high",
			Type:           pipeline.RecDuration,
			Confidence:     0.8,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "moderate":
		insights = append(insights, pipeline.Insight{
			Recommendation: "With around half an hour, keep rest tight and focus on compound movements",
			Type:           pipeline.RecDuration,
			Confidence:     0.75,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "standard":
		insights = append(insights, pipeline.Insight{
			Recommendation: "A standard session length - include a proper warmup and two main movement blocks",
			Type:           pipeline.RecDuration,
			Confidence:     0.75,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case "extended", "long":
		insights = append(insights, pipeline.Insight{
			Recommendation: "Longer session available - add accessory volume but watch fatigue in the final third",
			Type:           pipeline.RecDuration,
			Confidence:     0.75,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	}

	return insights, nil
}
