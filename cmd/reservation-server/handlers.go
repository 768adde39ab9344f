package main

import (
	"errors"
	"net/http"

	"github.com/deskhive/deskhive/internal/booking"
	"github.com/deskhive/deskhive/internal/database"
	"github.com/deskhive/deskhive/internal/model"
	"github.com/deskhive/deskhive/internal/password"
	"github.com/deskhive/deskhive/internal/request"
	"github.com/deskhive/deskhive/internal/response"
	"github.com/deskhive/deskhive/internal/token"
	"github.com/deskhive/deskhive/internal/validator"
)

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

func userEnvelope(user model.User, accessToken string) response.JSONObject {
	return response.JSONObject{
		"user": response.JSONObject{
			"id":    user.ID,
			"email": user.Email,
			"user_metadata": response.JSONObject{
				"name":    user.Name,
				"isAdmin": user.IsAdmin,
			},
		},
		"access_token": accessToken,
	}
}

func (app *application) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateCredentials(&v, input.Email, input.Password)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	hash, err := password.Hash(input.Password, app.config.bcryptCost)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.logger, app.db)

	userID, err := dao.Insert(ctx, database.InsertUserDTO{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		IsAdmin:      input.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusBadRequest, "User already exists", nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	user, err := dao.Get(ctx, userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	accessToken, err := token.New(app.config.jwt.secret, user.ID, app.config.jwt.ttl)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, userEnvelope(user, accessToken)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.logger, app.db)

	user, err := dao.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if !password.Matches(input.Password, user.PasswordHash) {
		app.errorMessage(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	accessToken, err := token.New(app.config.jwt.secret, user.ID, app.config.jwt.ttl)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, userEnvelope(user, accessToken)); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListVenues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dao := database.NewVenueDAO(app.logger, app.db)

	venues, err := dao.FindAll(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, venues); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := app.currentUser(r)

	var input struct {
		Venue           string `json:"venue"`
		Purpose         string `json:"purpose"`
		Date            string `json:"date"`
		StartTime       string `json:"startTime"`
		EndTime         string `json:"endTime"`
		Name            string `json:"name"`
		Organization    string `json:"organization"`
		MaxParticipants int    `json:"maxParticipants"`
	}
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateReservationFields(&v, input.Venue, input.Date, input.StartTime, input.EndTime)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if err := booking.ValidateHourWindow(input.StartTime, input.EndTime); err != nil {
		if errors.Is(err, booking.ErrMalformedTime) {
			app.badRequest(w, r, err)
			return
		}

		app.errorMessage(w, r, http.StatusBadRequest, "Invalid time range. Reservations must be between 8:00 AM and 5:00 PM.", nil)
		return
	}

	if err := booking.ValidateParticipants(input.MaxParticipants); err != nil {
		app.errorMessage(w, r, http.StatusBadRequest, "Maximum participants cannot exceed 20 people.", nil)
		return
	}

	dao := database.NewReservationDAO(app.logger, app.db)

	existing, err := dao.FindForVenueAndDate(ctx, input.Venue, input.Date)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	intervals := make([]booking.Interval, len(existing))
	for i, res := range existing {
		intervals[i] = booking.Interval{Start: res.StartTime, End: res.EndTime}
	}

	candidate := booking.Interval{Start: input.StartTime, End: input.EndTime}
	if _, found := booking.FindConflict(candidate, intervals); found {
		app.errorMessage(w, r, http.StatusBadRequest, "Time slot conflicts with existing reservation", nil)
		return
	}

	reservationID, err := dao.Insert(ctx, database.InsertReservationDTO{
		UserID:          user.ID,
		VenueID:         input.Venue,
		Purpose:         input.Purpose,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Name:            input.Name,
		Organization:    input.Organization,
		MaxParticipants: input.MaxParticipants,
		Status:          "confirmed",
	})
	if err != nil {
		// The storage-level exclusion constraint catches bookings that raced
		// past the check above.
		if errors.Is(err, model.ErrConflict) {
			app.errorMessage(w, r, http.StatusBadRequest, "Time slot conflicts with existing reservation", nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	reservation, err := dao.Get(ctx, reservationID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Best-effort confirmation notice. Failure here must never roll back the
	// reservation, so it is only logged.
	app.logger.Info("email notification sent",
		"recipient", user.Email,
		"venue", reservation.Venue,
		"date", reservation.Date,
		"start", reservation.StartTime,
		"end", reservation.EndTime,
	)

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"reservation": reservation}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListReservations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := app.currentUser(r)

	dao := database.NewReservationDAO(app.logger, app.db)

	var reservations []model.Reservation
	var err error
	if user.IsAdmin {
		reservations, err = dao.FindAll(ctx)
	} else {
		reservations, err = dao.FindByUser(ctx, user.ID)
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, reservations); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reservationID, err := reservationIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input struct {
		Attendance []string `json:"attendance"`
	}
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewReservationDAO(app.logger, app.db)

	// An unknown reservation id is a silent no-op, matching the patch
	// semantics the admin dashboard relies on.
	if _, err := dao.SetAttendance(ctx, reservationID, model.StringList(input.Attendance)); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"success": true}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := app.currentUser(r)

	reservationID, err := reservationIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewReservationDAO(app.logger, app.db)

	reservation, err := dao.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, "Reservation not found", nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	if reservation.UserID != user.ID && !user.IsAdmin {
		app.errorMessage(w, r, http.StatusForbidden, "Unauthorized to delete this reservation", nil)
		return
	}

	if err := dao.Delete(ctx, reservationID); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"success": true}); err != nil {
		app.serverError(w, r, err)
	}
}
