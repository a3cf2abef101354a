package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(shared(next))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(shared(next))
		}
		// Plan generation may call the LLM, so it gets a longer timeout.
		generation = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
					commonContext(app.generationTimeout(next))))))))
		}
	)

	mux.Handle("GET /plans", session(http.HandlerFunc(app.plansGET)))
	mux.Handle("GET /plans/{id}", session(http.HandlerFunc(app.planGET)))
	mux.Handle("POST /plans", generation(http.HandlerFunc(app.planCreatePOST)))

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", noAuth(http.HandlerFunc(app.testTimeout)))

	mux.Handle("GET /admin/feature-flags", session(http.HandlerFunc(app.adminFeatureFlagsGET)))
	mux.Handle("POST /admin/feature-flags/{name}/toggle", session(http.HandlerFunc(app.adminFeatureFlagTogglePOST)))

	// Home route (most specific)
	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	// Everything else is a 404
	mux.Handle("/", session(http.HandlerFunc(app.notFound)))

	return mux
}
