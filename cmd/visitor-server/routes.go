package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/", app.handleRoot)
	mux.Get("/status", app.handleStatus)

	mux.Post("/check-login-status", app.handleCheckLoginStatus)
	mux.Post("/login", app.handleLogin)
	mux.Post("/logout", app.handleLogout)
	mux.Get("/check-network", app.handleCheckNetwork)
	mux.Post("/reset-session-logs", app.handleResetSessionLogs)
	mux.Get("/visits", app.handleCountVisits)

	return mux
}
