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

	mux.Get("/status", app.handleStatus)

	mux.Post("/signup", app.handleSignup)
	mux.Post("/login", app.handleLogin)
	mux.Get("/venues", app.handleListVenues)

	mux.Group(func(mux chi.Router) {
		mux.Use(app.requireAuth)

		mux.Post("/reservations", app.handleCreateReservation)
		mux.Get("/reservations", app.handleListReservations)
		mux.Delete("/reservations/{reservationId}", app.handleDeleteReservation)

		mux.With(app.requireAdmin).Put("/reservations/{reservationId}/attendance", app.handleUpdateAttendance)
	})

	return mux
}
