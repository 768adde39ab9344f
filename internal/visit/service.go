package visit

import (
	"context"
	"errors"
	"time"

	"github.com/deskhive/deskhive/internal/model"
)

// Store is the session persistence surface the service needs. Implemented by
// database.SessionLogDAO. Day parameters select rows whose time-in falls on
// the same calendar day.
type Store interface {
	LatestForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error)
	OpenForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error)
	LastClosedForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error)
	Insert(ctx context.Context, dto InsertDTO) (model.ID, error)
	Close(ctx context.Context, id model.ID, dto CloseDTO) error
}

type InsertDTO struct {
	Email    string
	Name     string
	Position *string
	Terms    bool
	TimeIn   time.Time
}

type CloseDTO struct {
	TimeOut   time.Time
	Resources *string
	Feedback  *string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

type StatusResult struct {
	State   State
	Session *model.SessionLog
}

// Status inspects the most recent session for today and reports which modal
// the caller should present next.
func (s *Service) Status(ctx context.Context, email string) (StatusResult, error) {
	latest, err := s.store.LatestForDay(ctx, email, s.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return StatusResult{State: StateNone}, nil
		}
		return StatusResult{}, err
	}

	return StatusResult{State: StateOf(&latest), Session: &latest}, nil
}

type LoginInput struct {
	Email    string
	Name     string
	Position *string
	Terms    bool
}

type LoginResult struct {
	AlreadyLoggedIn bool
	Session         model.SessionLog
}

// Login records a new open session unless one already exists for today, in
// which case the existing session is returned untouched. A concurrent login
// that loses the race against the open-session unique index is treated the
// same as finding the session up front.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	now := s.now()

	open, err := s.store.OpenForDay(ctx, in.Email, now)
	if err == nil {
		return LoginResult{AlreadyLoggedIn: true, Session: open}, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, err
	}

	id, err := s.store.Insert(ctx, InsertDTO{
		Email:    in.Email,
		Name:     in.Name,
		Position: in.Position,
		Terms:    in.Terms,
		TimeIn:   now,
	})
	if err != nil {
		if errors.Is(err, model.ErrExists) {
			if open, ferr := s.store.OpenForDay(ctx, in.Email, now); ferr == nil {
				return LoginResult{AlreadyLoggedIn: true, Session: open}, nil
			}
		}
		return LoginResult{}, err
	}

	return LoginResult{
		Session: model.SessionLog{
			ID:       id,
			Email:    in.Email,
			Name:     in.Name,
			Position: in.Position,
			Terms:    in.Terms,
			TimeIn:   now,
			Login:    true,
		},
	}, nil
}

type LogoutResult struct {
	AlreadyLoggedOut bool
	Session          model.SessionLog
}

// Logout closes today's open session. Without one it reports the last closed
// session for today, or model.ErrNotFound when the visitor never logged in.
func (s *Service) Logout(ctx context.Context, email string, resources, feedback *string) (LogoutResult, error) {
	now := s.now()

	open, err := s.store.OpenForDay(ctx, email, now)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return LogoutResult{}, err
		}

		closed, cerr := s.store.LastClosedForDay(ctx, email, now)
		if cerr == nil {
			return LogoutResult{AlreadyLoggedOut: true, Session: closed}, nil
		}
		if errors.Is(cerr, model.ErrNotFound) {
			return LogoutResult{}, model.NewError("session", model.ErrNotFound)
		}
		return LogoutResult{}, cerr
	}

	if err := s.store.Close(ctx, open.ID, CloseDTO{
		TimeOut:   now,
		Resources: resources,
		Feedback:  feedback,
	}); err != nil {
		return LogoutResult{}, err
	}

	loggedOut := true
	open.Logout = &loggedOut
	open.TimeOut = &now
	open.Resources = resources
	open.Feedback = feedback

	return LogoutResult{Session: open}, nil
}
