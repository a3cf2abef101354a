package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/pipeline"
	"github.com/mvirta/fitpipe/internal/ptr"
	"github.com/mvirta/fitpipe/internal/workout"
)

// sessionKeyLastPlanID stores the ID of the plan generated in this session.
const sessionKeyLastPlanID = "lastPlanID"

type planTemplateData struct {
	BaseTemplateData
	Stored workout.StoredPlan
}

type plansTemplateData struct {
	BaseTemplateData
	Plans []workout.StoredPlan
}

// planCreatePOST runs the recommendation pipeline on the intake form input and
// redirects to the generated plan.
func (app *application) planCreatePOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	req := planRequestFromForm(r)

	result, err := app.workoutService.GeneratePlan(r.Context(), req)
	if err != nil {
		var engineErr *pipeline.EngineError
		if errors.As(err, &engineErr) && engineErr.Type != pipeline.ErrTimeout {
			http.Error(w, engineErr.Message, http.StatusUnprocessableEntity)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), sessionKeyLastPlanID, result.Stored.ID)

	redirect(w, r, fmt.Sprintf("/plans/%d", result.Stored.ID))
}

// planGET shows a single stored plan.
func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parsePlanIDParam(w, r)
	if !ok {
		return
	}

	stored, err := app.workoutService.GetPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, workout.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	data := planTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Stored:           stored,
	}

	app.render(w, r, http.StatusOK, "plan", data)
}

// plansGET lists the most recently generated plans.
func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	plans, err := app.workoutService.RecentPlans(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := plansTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Plans:            plans,
	}

	app.render(w, r, http.StatusOK, "plans", data)
}

// planRequestFromForm maps intake form fields onto the raw pipeline input.
// Malformed numbers become NaN so the pipeline can degrade them to defaults.
func planRequestFromForm(r *http.Request) workout.PlanRequest {
	equipment := r.PostForm["equipment"]

	req := workout.PlanRequest{
		Profile: pipeline.RawProfile{
			ExperienceLevel:     r.PostForm.Get("experience_level"),
			PrimaryGoal:         r.PostForm.Get("primary_goal"),
			Injuries:            splitCommaList(r.PostForm.Get("injuries")),
			PreferredActivities: r.PostForm["preferred_activities"],
			AvailableEquipment:  equipment,
		},
		Workout: pipeline.RawWorkout{
			Focus:       r.PostForm.Get("focus"),
			DurationMin: formNumber(r.PostForm.Get("duration_min")),
			EnergyLevel: formNumber(r.PostForm.Get("energy_level")),
			Equipment:   equipment,
			TargetAreas: splitCommaList(r.PostForm.Get("target_areas")),
		},
		Preferences: pipeline.RawPreferences{
			WorkoutStyle:        []string{r.PostForm.Get("workout_style")},
			IntensityPreference: r.PostForm.Get("intensity_preference"),
			AssistLevel:         r.PostForm.Get("assist_level"),
		},
	}

	if soreness := r.PostForm.Get("soreness_rating"); soreness != "" {
		req.Workout.SorenessRating = ptr.Ref(formNumber(soreness))
		req.Workout.SorenessAreas = splitCommaList(r.PostForm.Get("soreness_areas"))
	}

	return req
}

func formNumber(value string) float64 {
	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return number
}

func splitCommaList(value string) []string {
	var items []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
