package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Soreness analyzes reported muscle soreness and steers the session toward
// recovery when the rating is high. It only runs when soreness data was
// actually reported.
type Soreness struct{}

func (Soreness) Name() string { return "soreness" }

// Applicable reports whether soreness data is present in the context.
func (Soreness) Applicable(gc pipeline.GlobalContext) bool {
	return gc.Soreness != nil
}

func (Soreness) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	soreness := gc.Soreness
	metadata := map[string]any{
		"rating": soreness.Rating,
		"bucket": soreness.Bucket,
		"areas":  soreness.Areas,
	}

	var insights []pipeline.Insight
	switch {
	case soreness.Rating >= 7:
		content := "Significant soreness reported - prioritize a recovery session over new training stress"
		if len(soreness.Areas) > 0 {
			content = fmt.Sprintf(
				"Significant soreness in %s - prioritize a recovery session over new training stress",
				strings.Join(soreness.Areas, ", "))
		}
		insights = append(insights, pipeline.Insight{
			Recommendation: content,
			Type:           pipeline.RecFocus,
			Confidence:     0.9,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
		insights = append(insights, pipeline.Insight{
			Recommendation: "Shorten the session and keep loads light while soreness is high",
			Type:           pipeline.RecDuration,
			Confidence:     0.8,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case soreness.Rating >= 5:
		insights = append(insights, pipeline.Insight{
			Recommendation: "Moderate soreness - work around the sore areas and extend the warmup",
			Type:           pipeline.RecFocus,
			Confidence:     0.78,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	case soreness.Rating >= 3:
		insights = append(insights, pipeline.Insight{
			Recommendation: "Mild soreness reported - a normal session is fine, monitor the sore areas",
			Type:           pipeline.RecGeneral,
			Confidence:     0.7,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	}

	return insights, nil
}
