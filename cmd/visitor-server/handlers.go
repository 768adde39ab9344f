package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomasen/realip"

	"github.com/deskhive/deskhive/internal/database"
	"github.com/deskhive/deskhive/internal/model"
	"github.com/deskhive/deskhive/internal/request"
	"github.com/deskhive/deskhive/internal/response"
	"github.com/deskhive/deskhive/internal/visit"
)

// _clockLayout renders times the way the kiosk displays them, e.g. "09:15 AM".
const _clockLayout = "03:04 PM"

func (app *application) visitService() *visit.Service {
	return visit.NewService(database.NewSessionLogDAO(app.logger, app.db), nil)
}

func (app *application) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "DeskHive visitor service is running.")
}

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCheckLoginStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email string `json:"email"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" {
		app.errorMessage(w, r, http.StatusBadRequest, "Email is required", nil)
		return
	}

	result, err := app.visitService().Status(ctx, input.Email)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	var body response.JSONObject
	switch result.State {
	case visit.StateLoggedIn:
		body = response.JSONObject{
			"status":     result.State.String(),
			"next_modal": "logout",
			"message":    "You are already logged in today. Please proceed to log out.",
			"session_id": result.Session.ID,
			"timein":     result.Session.TimeIn.Format(time.RFC3339),
		}
	case visit.StateLoggedOut:
		logoutClock := "N/A"
		var logoutTime any
		if result.Session.TimeOut != nil {
			logoutClock = result.Session.TimeOut.Format(_clockLayout)
			logoutTime = result.Session.TimeOut.Format(time.RFC3339)
		}
		body = response.JSONObject{
			"status":      result.State.String(),
			"next_modal":  "login",
			"message":     fmt.Sprintf("You are logged out. Last logout was at %s. You may log in again.", logoutClock),
			"session_id":  result.Session.ID,
			"logout_time": logoutTime,
		}
	default:
		body = response.JSONObject{
			"status":     result.State.String(),
			"next_modal": "login",
			"message":    "No session found for today. Please log in to start your session.",
		}
	}

	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Position string `json:"position"`
		Terms    *bool  `json:"terms"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Position) == "" || input.Terms == nil {
		app.errorMessage(w, r, http.StatusBadRequest, "Missing required fields", nil)
		return
	}

	result, err := app.visitService().Login(ctx, visit.LoginInput{
		Email:    input.Email,
		Name:     input.Name,
		Position: &input.Position,
		Terms:    *input.Terms,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if result.AlreadyLoggedIn {
		body := response.JSONObject{
			"status":     "already_logged_in",
			"message":    fmt.Sprintf("User already logged in today at %s. Please log out first.", result.Session.TimeIn.Format(_clockLayout)),
			"session_id": result.Session.ID,
			"timein":     result.Session.TimeIn.Format(time.RFC3339),
		}
		if err := response.JSON(w, http.StatusOK, body); err != nil {
			app.serverError(w, r, err)
		}
		return
	}

	body := response.JSONObject{
		"status":     "success",
		"message":    "User login recorded.",
		"session_id": result.Session.ID,
	}
	if err := response.JSON(w, http.StatusCreated, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input struct {
		Email     string  `json:"email"`
		Resources *string `json:"resources"`
		Feedback  *string `json:"feedback"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" {
		app.errorMessage(w, r, http.StatusBadRequest, "Email is required", nil)
		return
	}

	result, err := app.visitService().Logout(ctx, input.Email, input.Resources, input.Feedback)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			body := response.JSONObject{
				"status":  "error",
				"message": "No active login session found for today.",
			}
			if jerr := response.JSON(w, http.StatusNotFound, body); jerr != nil {
				app.serverError(w, r, jerr)
			}
			return
		}

		app.serverError(w, r, err)
		return
	}

	if result.AlreadyLoggedOut {
		var timeout any
		clock := "N/A"
		if result.Session.TimeOut != nil {
			clock = result.Session.TimeOut.Format(_clockLayout)
			timeout = result.Session.TimeOut.Format(time.RFC3339)
		}
		body := response.JSONObject{
			"status":     "already_logged_out",
			"message":    fmt.Sprintf("You have already logged out today at %s.", clock),
			"session_id": result.Session.ID,
			"timeout":    timeout,
		}
		if err := response.JSON(w, http.StatusOK, body); err != nil {
			app.serverError(w, r, err)
		}
		return
	}

	body := response.JSONObject{
		"status":     "success",
		"message":    "User logged out successfully.",
		"session_id": result.Session.ID,
		"timeout":    result.Session.TimeOut.Format(time.RFC3339),
	}
	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCheckNetwork(w http.ResponseWriter, r *http.Request) {
	ip := realip.FromRequest(r)

	allowed, err := app.guard.Allowed(ip)
	if err != nil {
		body := response.JSONObject{"connected": false, "message": "Invalid IP address."}
		if jerr := response.JSON(w, http.StatusBadRequest, body); jerr != nil {
			app.serverError(w, r, jerr)
		}
		return
	}

	if !allowed {
		body := response.JSONObject{
			"connected": false,
			"message":   fmt.Sprintf("Access denied. Connect to the co-working space WiFi. Your IP: %s", ip),
		}
		if err := response.JSON(w, http.StatusForbidden, body); err != nil {
			app.serverError(w, r, err)
		}
		return
	}

	body := response.JSONObject{
		"connected": true,
		"message":   fmt.Sprintf("Connected to allowed network (%s).", ip),
	}
	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleResetSessionLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dao := database.NewSessionLogDAO(app.logger, app.db)

	if err := dao.Reset(ctx); err != nil {
		app.serverError(w, r, err)
		return
	}

	body := response.JSONObject{
		"status":  "success",
		"message": "All session logs deleted and ID sequence reset to 1.",
	}
	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCountVisits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, yearOK, err := intQueryParam(r, "year")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	month, monthOK, err := intQueryParam(r, "month")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	day, dayOK, err := intQueryParam(r, "day")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	if !yearOK || !monthOK {
		app.errorMessage(w, r, http.StatusBadRequest, "Please provide at least 'month' and 'year'.", nil)
		return
	}

	dao := database.NewSessionLogDAO(app.logger, app.db)

	total, err := dao.DistinctVisits(ctx, year, month, day)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	var dayField any
	if dayOK {
		dayField = day
	}

	body := response.JSONObject{
		"status":              "success",
		"year":                year,
		"month":               month,
		"day":                 dayField,
		"total_unique_visits": total,
	}
	if err := response.JSON(w, http.StatusOK, body); err != nil {
		app.serverError(w, r, err)
	}
}
