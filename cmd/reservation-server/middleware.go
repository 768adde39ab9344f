package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/tomasen/realip"

	"github.com/deskhive/deskhive/internal/ctxstore"
	"github.com/deskhive/deskhive/internal/database"
	"github.com/deskhive/deskhive/internal/model"
	"github.com/deskhive/deskhive/internal/response"
	"github.com/deskhive/deskhive/internal/token"
)

const (
	_traceIDKey     = ctxstore.Key("traceId")
	_currentUserKey = ctxstore.Key("currentUser")
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	if len(app.config.cors.origins) == 0 {
		return cors.AllowAll().Handler(next)
	}

	return cors.New(cors.Options{
		AllowedOrigins: app.config.cors.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(next)
}

// requireAuth verifies the bearer token and stashes the authenticated user
// in the request context.
func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		authHeader := r.Header.Get("Authorization")
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			app.errorMessage(w, r, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}

		claims, err := token.Parse(app.config.jwt.secret, tokenStr)
		if err != nil {
			app.errorMessage(w, r, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}

		dao := database.NewUserDAO(app.logger, app.db)

		user, err := dao.Get(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				app.errorMessage(w, r, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}

			app.serverError(w, r, err)
			return
		}

		ctx = ctxstore.With(ctx, _currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must be mounted after requireAuth.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.currentUser(r)
		if !user.IsAdmin {
			app.errorMessage(w, r, http.StatusForbidden, "Admin access required", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) currentUser(r *http.Request) model.User {
	return ctxstore.MustFrom[model.User](r.Context(), _currentUserKey)
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
