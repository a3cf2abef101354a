package workout

// libraryEntry is an exercise the fallback generator can draw from.
type libraryEntry struct {
	name string
	// workoutTypes lists which plan types the exercise fits.
	workoutTypes []string
	// equipment the exercise requires. Empty means bodyweight.
	equipment []string
	// timedSec marks timed exercises; zero means rep-based.
	timedSec int
	sets     int
	reps     int
}

// exerciseLibrary is the built-in pool used when no LLM plan is available.
//
//nolint:gochecknoglobals // static exercise table.
var exerciseLibrary = []libraryEntry{
	// Strength.
	{name: "Push-up", workoutTypes: []string{PlanTypeStrength, PlanTypeHIIT}, sets: 3, reps: 12},
	{name: "Bodyweight Squat", workoutTypes: []string{PlanTypeStrength, PlanTypeHIIT}, sets: 3, reps: 15},
	{name: "Lunge", workoutTypes: []string{PlanTypeStrength}, sets: 3, reps: 10},
	{name: "Glute Bridge", workoutTypes: []string{PlanTypeStrength}, sets: 3, reps: 12},
	{name: "Plank", workoutTypes: []string{PlanTypeStrength}, timedSec: 45, sets: 3},
	{name: "Dumbbell Row", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"dumbbells"}, sets: 3, reps: 10},
	{name: "Dumbbell Shoulder Press", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"dumbbells"}, sets: 3, reps: 10},
	{name: "Goblet Squat", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"dumbbells"}, sets: 3, reps: 12},
	{name: "Dumbbell Deadlift", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"dumbbells"}, sets: 3, reps: 8},
	{name: "Barbell Squat", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"barbell"}, sets: 4, reps: 6},
	{name: "Barbell Bench Press", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"barbell"}, sets: 4, reps: 6},
	{name: "Band Pull-apart", workoutTypes: []string{PlanTypeStrength}, equipment: []string{"resistance_bands"}, sets: 3, reps: 15},
	{name: "Kettlebell Swing", workoutTypes: []string{PlanTypeStrength, PlanTypeHIIT}, equipment: []string{"kettlebell"}, sets: 3, reps: 15},

	// Cardio.
	{name: "Jumping Jack", workoutTypes: []string{PlanTypeCardio, PlanTypeHIIT}, timedSec: 60, sets: 3},
	{name: "High Knees", workoutTypes: []string{PlanTypeCardio, PlanTypeHIIT}, timedSec: 45, sets: 3},
	{name: "Mountain Climber", workoutTypes: []string{PlanTypeCardio, PlanTypeHIIT}, timedSec: 45, sets: 3},
	{name: "Burpee", workoutTypes: []string{PlanTypeCardio, PlanTypeHIIT}, sets: 3, reps: 10},
	{name: "Jump Rope", workoutTypes: []string{PlanTypeCardio}, equipment: []string{"jump_rope"}, timedSec: 90, sets: 3},
	{name: "Treadmill Interval", workoutTypes: []string{PlanTypeCardio}, equipment: []string{"treadmill"}, timedSec: 120, sets: 4},
	{name: "Stationary Bike Sprint", workoutTypes: []string{PlanTypeCardio, PlanTypeHIIT}, equipment: []string{"exercise_bike"}, timedSec: 60, sets: 5},
	{name: "Rowing Machine Interval", workoutTypes: []string{PlanTypeCardio}, equipment: []string{"rowing_machine"}, timedSec: 120, sets: 4},

	// Flexibility.
	{name: "Cat-Cow Stretch", workoutTypes: []string{PlanTypeFlexibility}, timedSec: 60, sets: 2},
	{name: "Downward Dog", workoutTypes: []string{PlanTypeFlexibility}, timedSec: 45, sets: 2},
	{name: "Hamstring Stretch", workoutTypes: []string{PlanTypeFlexibility}, timedSec: 45, sets: 2},
	{name: "Hip Flexor Stretch", workoutTypes: []string{PlanTypeFlexibility}, timedSec: 45, sets: 2},
	{name: "Child's Pose", workoutTypes: []string{PlanTypeFlexibility}, timedSec: 60, sets: 2},
	{name: "Thoracic Rotation", workoutTypes: []string{PlanTypeFlexibility}, sets: 2, reps: 10},
	{name: "Foam Roll Quads", workoutTypes: []string{PlanTypeFlexibility}, equipment: []string{"foam_roller"}, timedSec: 60, sets: 2},
	{name: "Band Shoulder Stretch", workoutTypes: []string{PlanTypeFlexibility}, equipment: []string{"resistance_bands"}, timedSec: 45, sets: 2},
}

// fitsEquipment reports whether the entry can be performed with the given
// equipment selection. Bodyweight entries always fit.
func (e libraryEntry) fitsEquipment(available []string) bool {
	if len(e.equipment) == 0 {
		return true
	}
	for _, required := range e.equipment {
		found := false
		for _, have := range available {
			if have == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fitsType reports whether the entry matches the plan workout type.
func (e libraryEntry) fitsType(workoutType string) bool {
	for _, t := range e.workoutTypes {
		if t == workoutType {
			return true
		}
	}
	return false
}

// planned converts a library entry into a plan slot.
func (e libraryEntry) planned() PlannedExercise {
	return PlannedExercise{
		Name:        e.name,
		Sets:        e.sets,
		Reps:        e.reps,
		DurationSec: e.timedSec,
		Equipment:   e.equipment,
	}
}
