package evaluators

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvirta/fitpipe/internal/pipeline"
)

// Focus analyzes the chosen workout focus against the profile goal and
// target areas.
type Focus struct{}

func (Focus) Name() string { return "focus" }

func (Focus) Analyze(_ context.Context, gc pipeline.GlobalContext) ([]pipeline.Insight, error) {
	metadata := map[string]any{
		"focus":        gc.Focus,
		"primary_goal": gc.PrimaryGoal,
		"target_areas": gc.TargetAreas,
	}

	var insights []pipeline.Insight
	if goalAlignsWithFocus(gc.PrimaryGoal, gc.Focus) {
		insights = append(insights, pipeline.Insight{
			Recommendation: fmt.Sprintf(
				"A %s session aligns with your %s goal - structure the main block around it",
				gc.Focus, gc.PrimaryGoal),
			Type:       pipeline.RecFocus,
			Confidence: 0.82,
			Source:     pipeline.SourceCombined,
			Metadata:   metadata,
		})
	} else {
		insights = append(insights, pipeline.Insight{
			Recommendation: fmt.Sprintf(
				"Today's %s focus complements your %s goal as accessory work",
				gc.Focus, gc.PrimaryGoal),
			Type:       pipeline.RecFocus,
			Confidence: 0.75,
			Source:     pipeline.SourceCombined,
			Metadata:   metadata,
		})
	}

	if len(gc.TargetAreas) > 0 {
		insights = append(insights, pipeline.Insight{
			Recommendation: fmt.Sprintf(
				"Bias exercise selection toward the requested areas: %s",
				strings.Join(gc.TargetAreas, ", ")),
			Type:       pipeline.RecExercise,
			Confidence: 0.76,
			Source:     pipeline.SourceWorkout,
			Metadata:   metadata,
		})
	}

	return insights, nil
}

// goalAlignsWithFocus reports whether the normalized focus plausibly serves
// the profile goal. The mapping is a loose keyword match, not taxonomy.
func goalAlignsWithFocus(goal, focus string) bool {
	goal = strings.ToLower(goal)
	focus = strings.ToLower(focus)

	pairs := map[string][]string{
		"strength":    {"strength", "muscle", "power"},
		"cardio":      {"cardio", "endurance", "weight_loss", "stamina"},
		"flexibility": {"flexibility", "mobility"},
		"hiit":        {"weight_loss", "conditioning", "endurance"},
	}
	keywords, ok := pairs[focus]
	if !ok {
		return strings.Contains(goal, focus)
	}
	for _, keyword := range keywords {
		if strings.Contains(goal, keyword) {
			return true
		}
	}
	return false
}
