package main

import (
	"net/http"
)

// equipmentOptions are the equipment choices offered on the intake form.
// Values flow through normalization, so the presentation casing is fine here.
var equipmentOptions = []string{
	"Dumbbells",
	"Barbell",
	"Kettlebell",
	"Resistance Bands",
	"Yoga Mat",
	"Foam Roller",
}

// activityOptions are the preferred activity choices on the intake form.
var activityOptions = []string{
	"Strength Training",
	"Cardio",
	"Flexibility",
	"HIIT",
}

type homeTemplateData struct {
	BaseTemplateData
	// EquipmentOptions are the selectable equipment checkboxes.
	EquipmentOptions []string
	// ActivityOptions are the selectable preferred activity checkboxes.
	ActivityOptions []string
	// LastPlanID links to the plan generated in this session, if any.
	LastPlanID int64
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		EquipmentOptions: equipmentOptions,
		ActivityOptions:  activityOptions,
		LastPlanID:       app.sessionManager.GetInt64(r.Context(), sessionKeyLastPlanID),
	}

	app.render(w, r, http.StatusOK, "home", data)
}
