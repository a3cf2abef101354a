package workout

import (
	"regexp"
	"strconv"
	"strings"
)

// Recommendation text fragments recognised by the parser, for example
// "Push-up: 3 sets of 12 reps (keep core tight) using dumbbells".
var (
	setsPattern      = regexp.MustCompile(`(?i)(\d+)\s*sets?`)
	repsPattern      = regexp.MustCompile(`(?i)(\d+)\s*reps?`)
	secondsPattern   = regexp.MustCompile(`(?i)(\d+)\s*seconds?`)
	notesPattern     = regexp.MustCompile(`\(([^)]+)\)`)
	equipmentPattern = regexp.MustCompile(`(?i)using\s+([^.;(]+)`)
)

// parseExerciseRecommendation extracts a plan slot from free-form
// recommendation text. It returns nil when the text does not describe a
// concrete exercise, which is the common case.
func parseExerciseRecommendation(content string) *PlannedExercise {
	name := extractExerciseName(content)
	if name == "" {
		return nil
	}

	exercise := PlannedExercise{Name: name}
	if m := setsPattern.FindStringSubmatch(content); m != nil {
		exercise.Sets, _ = strconv.Atoi(m[1])
	}
	if m := repsPattern.FindStringSubmatch(content); m != nil {
		exercise.Reps, _ = strconv.Atoi(m[1])
	}
	if m := secondsPattern.FindStringSubmatch(content); m != nil {
		exercise.DurationSec, _ = strconv.Atoi(m[1])
	}

	// Without any dosage the text is advice, not an exercise prescription.
	if exercise.Sets == 0 && exercise.Reps == 0 && exercise.DurationSec == 0 {
		return nil
	}

	if m := notesPattern.FindStringSubmatch(content); m != nil {
		exercise.Notes = strings.TrimSpace(m[1])
	}
	if m := equipmentPattern.FindStringSubmatch(content); m != nil {
		for _, item := range strings.Split(m[1], ",") {
			item = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), "."))
			if item != "" {
				exercise.Equipment = append(exercise.Equipment, normalizeEquipmentToken(item))
			}
		}
	}

	return &exercise
}

// extractExerciseName takes the text before the first colon, or before the
// first digit when there is no colon.
func extractExerciseName(content string) string {
	if idx := strings.Index(content, ":"); idx > 0 {
		return strings.TrimSpace(content[:idx])
	}
	if idx := strings.IndexFunc(content, func(r rune) bool { return r >= '0' && r <= '9' }); idx > 0 {
		name := strings.TrimSpace(strings.TrimRight(content[:idx], " -,"))
		return name
	}
	return ""
}

func normalizeEquipmentToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
