// Package visit implements the per-email daily check-in/check-out state
// machine and the rules around it. A visitor moves through
// StateNone -> StateLoggedIn -> StateLoggedOut within one calendar day; a
// fresh login after a completed logout starts a new session row, so several
// closed sessions may accumulate per day but at most one may be open.
package visit

import "github.com/deskhive/deskhive/internal/model"

type State int

const (
	StateNone State = iota
	StateLoggedIn
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "not_existing"
	case StateLoggedIn:
		return "email_already_logged_in"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// StateOf derives the explicit state from a stored session row. The row
// encodes it in two nullable flags: login=true with logout unset means the
// session is still open.
func StateOf(session *model.SessionLog) State {
	if session == nil {
		return StateNone
	}
	if session.Login && session.Logout == nil {
		return StateLoggedIn
	}
	return StateLoggedOut
}
