package visit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/model"
)

// mockStore keeps today's sessions in memory, newest first.
type mockStore struct {
	sessions     []model.SessionLog
	nextID       model.ID
	insertErr    error
	hideOpenOnce bool
	closed       map[model.ID]CloseDTO
}

func newMockStore() *mockStore {
	return &mockStore{nextID: 1, closed: map[model.ID]CloseDTO{}}
}

func (m *mockStore) LatestForDay(_ context.Context, email string, _ time.Time) (model.SessionLog, error) {
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].Email == email {
			return m.sessions[i], nil
		}
	}
	return model.SessionLog{}, model.ErrNotFound
}

func (m *mockStore) OpenForDay(_ context.Context, email string, _ time.Time) (model.SessionLog, error) {
	if m.hideOpenOnce {
		m.hideOpenOnce = false
		return model.SessionLog{}, model.ErrNotFound
	}
	for i := len(m.sessions) - 1; i >= 0; i-- {
		s := m.sessions[i]
		if s.Email == email && s.Login && s.Logout == nil {
			return s, nil
		}
	}
	return model.SessionLog{}, model.ErrNotFound
}

func (m *mockStore) LastClosedForDay(_ context.Context, email string, _ time.Time) (model.SessionLog, error) {
	for i := len(m.sessions) - 1; i >= 0; i-- {
		s := m.sessions[i]
		if s.Email == email && s.Logout != nil && *s.Logout {
			return s, nil
		}
	}
	return model.SessionLog{}, model.ErrNotFound
}

func (m *mockStore) Insert(_ context.Context, dto InsertDTO) (model.ID, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	id := m.nextID
	m.nextID++
	m.sessions = append(m.sessions, model.SessionLog{
		ID:       id,
		Email:    dto.Email,
		Name:     dto.Name,
		Position: dto.Position,
		Terms:    dto.Terms,
		TimeIn:   dto.TimeIn,
		Login:    true,
	})
	return id, nil
}

func (m *mockStore) Close(_ context.Context, id model.ID, dto CloseDTO) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			loggedOut := true
			m.sessions[i].Logout = &loggedOut
			m.sessions[i].TimeOut = &dto.TimeOut
			m.sessions[i].Resources = dto.Resources
			m.sessions[i].Feedback = dto.Feedback
			m.closed[id] = dto
			return nil
		}
	}
	return model.ErrNotFound
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2024, time.March, 12, 10, 30, 0, 0, time.UTC)

func TestStateOf(t *testing.T) {
	loggedOut := true

	tests := []struct {
		name    string
		session *model.SessionLog
		want    State
	}{
		{name: "nil session", session: nil, want: StateNone},
		{name: "open session", session: &model.SessionLog{Login: true}, want: StateLoggedIn},
		{name: "closed session", session: &model.SessionLog{Login: true, Logout: &loggedOut}, want: StateLoggedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.session); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceStatus(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := NewService(store, fixedClock(testNow))

	result, err := svc.Status(ctx, "bob@x.com")
	if err != nil {
		t.Fatalf("Status() error = %v, want nil", err)
	}
	if result.State != StateNone {
		t.Errorf("Status() state = %v, want %v", result.State, StateNone)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true}); err != nil {
		t.Fatalf("Login() error = %v, want nil", err)
	}

	result, err = svc.Status(ctx, "bob@x.com")
	if err != nil {
		t.Fatalf("Status() error = %v, want nil", err)
	}
	if result.State != StateLoggedIn {
		t.Errorf("Status() state = %v, want %v", result.State, StateLoggedIn)
	}
	if result.Session == nil || result.Session.ID != 1 {
		t.Errorf("Status() session = %v, want session with id 1", result.Session)
	}

	if _, err := svc.Logout(ctx, "bob@x.com", nil, nil); err != nil {
		t.Fatalf("Logout() error = %v, want nil", err)
	}

	result, err = svc.Status(ctx, "bob@x.com")
	if err != nil {
		t.Fatalf("Status() error = %v, want nil", err)
	}
	if result.State != StateLoggedOut {
		t.Errorf("Status() state = %v, want %v", result.State, StateLoggedOut)
	}
}

func TestServiceLoginSecondLoginReturnsOriginalSession(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := NewService(store, fixedClock(testNow))

	first, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true})
	if err != nil {
		t.Fatalf("Login() error = %v, want nil", err)
	}
	if first.AlreadyLoggedIn {
		t.Error("first Login() reported already logged in")
	}

	second, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true})
	if err != nil {
		t.Fatalf("second Login() error = %v, want nil", err)
	}
	if !second.AlreadyLoggedIn {
		t.Error("second Login() did not report already logged in")
	}
	if second.Session.ID != first.Session.ID {
		t.Errorf("second Login() session id = %d, want %d", second.Session.ID, first.Session.ID)
	}
	if len(store.sessions) != 1 {
		t.Errorf("store has %d sessions, want 1", len(store.sessions))
	}
}

func TestServiceLoginAfterLogoutStartsNewSession(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := NewService(store, fixedClock(testNow))

	if _, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true}); err != nil {
		t.Fatalf("Login() error = %v, want nil", err)
	}
	if _, err := svc.Logout(ctx, "bob@x.com", nil, nil); err != nil {
		t.Fatalf("Logout() error = %v, want nil", err)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true})
	if err != nil {
		t.Fatalf("re-Login() error = %v, want nil", err)
	}
	if result.AlreadyLoggedIn {
		t.Error("re-Login() after logout reported already logged in")
	}
	if result.Session.ID != 2 {
		t.Errorf("re-Login() session id = %d, want 2", result.Session.ID)
	}
}

func TestServiceLoginRacingInsertFallsBackToOpenSession(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	svc := NewService(store, fixedClock(testNow))

	// Simulate losing the race: the pre-insert check sees no open session,
	// the insert fails on the open-session unique index, and the re-fetch
	// finds the concurrent request's session.
	store.sessions = append(store.sessions, model.SessionLog{
		ID: 7, Email: "bob@x.com", Login: true, TimeIn: testNow,
	})
	store.insertErr = model.ErrExists
	store.hideOpenOnce = true

	result, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true})
	if err != nil {
		t.Fatalf("Login() error = %v, want nil", err)
	}
	if !result.AlreadyLoggedIn || result.Session.ID != 7 {
		t.Errorf("Login() = %+v, want already logged in with session 7", result)
	}
}

func TestServiceLogout(t *testing.T) {
	ctx := context.Background()
	resources := "3D printer"
	feedback := "all good"

	t.Run("closes the open session", func(t *testing.T) {
		store := newMockStore()
		svc := NewService(store, fixedClock(testNow))

		login, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true})
		if err != nil {
			t.Fatalf("Login() error = %v, want nil", err)
		}

		result, err := svc.Logout(ctx, "bob@x.com", &resources, &feedback)
		if err != nil {
			t.Fatalf("Logout() error = %v, want nil", err)
		}
		if result.AlreadyLoggedOut {
			t.Error("Logout() reported already logged out")
		}
		if result.Session.ID != login.Session.ID {
			t.Errorf("Logout() session id = %d, want %d", result.Session.ID, login.Session.ID)
		}
		if result.Session.TimeOut == nil || !result.Session.TimeOut.Equal(testNow) {
			t.Errorf("Logout() timeout = %v, want %v", result.Session.TimeOut, testNow)
		}

		dto, ok := store.closed[login.Session.ID]
		if !ok {
			t.Fatal("Logout() did not close the session in the store")
		}
		if dto.Resources == nil || *dto.Resources != resources {
			t.Errorf("Logout() stored resources = %v, want %q", dto.Resources, resources)
		}
	})

	t.Run("already logged out", func(t *testing.T) {
		store := newMockStore()
		svc := NewService(store, fixedClock(testNow))

		if _, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Name: "Bob", Terms: true}); err != nil {
			t.Fatalf("Login() error = %v, want nil", err)
		}
		if _, err := svc.Logout(ctx, "bob@x.com", nil, nil); err != nil {
			t.Fatalf("Logout() error = %v, want nil", err)
		}

		result, err := svc.Logout(ctx, "bob@x.com", nil, nil)
		if err != nil {
			t.Fatalf("second Logout() error = %v, want nil", err)
		}
		if !result.AlreadyLoggedOut {
			t.Error("second Logout() did not report already logged out")
		}
		if result.Session.ID != 1 {
			t.Errorf("second Logout() session id = %d, want 1", result.Session.ID)
		}
	})

	t.Run("no session at all", func(t *testing.T) {
		store := newMockStore()
		svc := NewService(store, fixedClock(testNow))

		_, err := svc.Logout(ctx, "nobody@x.com", nil, nil)
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Logout() error = %v, want %v", err, model.ErrNotFound)
		}
	})
}
