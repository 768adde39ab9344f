package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/deskhive/deskhive/internal/ctxstore"
	"github.com/deskhive/deskhive/internal/response"
	"github.com/deskhive/deskhive/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		method = r.Method
		url    = r.URL.String()
		tid, _ = ctxstore.From[string](r.Context(), _traceIDKey)
	)

	requestAttrs := slog.Group("request", "method", method, "url", url, _traceIDKey.String(), tid)
	app.logger.Error(err.Error(), requestAttrs)
}

// errorMessage writes the fixed JSON error envelope: a single top-level
// "error" field with a human-readable message.
func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	messages := make([]string, 0, len(v.Errors)+len(v.FieldErrors))
	messages = append(messages, v.Errors...)
	for _, field := range sortedKeys(v.FieldErrors) {
		messages = append(messages, field+" "+v.FieldErrors[field])
	}

	app.errorMessage(w, r, http.StatusBadRequest, strings.Join(messages, "; "), nil)
}
