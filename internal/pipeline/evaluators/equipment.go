package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Equipment analyzes what gear is available for the session.
type Equipment struct{}

func (Equipment) Name() string { return "equipment" }

func (Equipment) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	metadata := map[string]any{
		"selected":  gc.Equipment,
		"available": gc.AvailableEquipment,
	}

	if len(gc.Equipment) == 0 {
		return []pipeline.Insight{{
			Recommendation: "No equipment selected - build the session from bodyweight movements",
			Type:           pipeline.RecEquipment,
			Confidence:     0.85,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		}}, nil
	}

	insights := []pipeline.Insight{{
		Recommendation: fmt.Sprintf(
			"Build the main work around the selected equipment: %s",
			strings.Join(gc.Equipment, ", ")),
		Type:       pipeline.RecEquipment,
		Confidence: 0.75,
		Source:     pipeline.SourceWorkout,
		Metadata:   metadata,
	}}

	// A wide selection supports station or circuit style programming.
	if len(gc.Equipment) >= 3 {
		insights = append(insights, pipeline.Insight{
			Recommendation: "Plenty of equipment available - rotate stations to cover more movement patterns",
			Type:           pipeline.RecEquipment,
			Confidence:     0.72,
			Source:         pipeline.SourceWorkout,
			Metadata:       metadata,
		})
	}

	return insights, nil
}
