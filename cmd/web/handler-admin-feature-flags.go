package main

import (
	"log/slog"
	"net/http"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/workout"
)

// featureFlagsAdminTemplateData contains data for the feature flags admin template.
type featureFlagsAdminTemplateData struct {
	BaseTemplateData
	FeatureFlags []workout.FeatureFlag
}

// adminFeatureFlagsGET handles GET requests to the feature flags admin page.
func (app *application) adminFeatureFlagsGET(w http.ResponseWriter, r *http.Request) {
	flags, err := app.workoutService.ListFeatureFlags(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := featureFlagsAdminTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		FeatureFlags:     flags,
	}

	app.render(w, r, http.StatusOK, "admin-feature-flags", data)
}

// adminFeatureFlagTogglePOST handles POST requests to toggle a feature flag.
func (app *application) adminFeatureFlagTogglePOST(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		app.notFound(w, r)
		return
	}

	// A flag that has never been stored toggles from disabled to enabled.
	enabled := false
	flag, err := app.workoutService.GetFeatureFlag(r.Context(), name)
	if err != nil && !errors.Is(err, workout.ErrNotFound) {
		app.serverError(w, r, err)
		return
	}
	if err == nil {
		enabled = flag.Enabled
	}

	if err = app.workoutService.SetFeatureFlag(r.Context(), name, !enabled); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "toggled feature flag",
		slog.String("name", name),
		slog.Bool("enabled", !enabled))

	// Redirect back to feature flags list
	redirect(w, r, "/admin/feature-flags")
}
