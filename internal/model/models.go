package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ID = uint

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	IsAdmin      bool   `json:"isAdmin" db:"is_admin"`
}

type Venue struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Capacity int    `json:"capacity" db:"capacity"`
}

// Reservation field names on the wire are the camelCase keys the booking
// front-end expects. Date and the two times are wall-clock strings
// ("2006-01-02" and zero-padded "15:04"), not time types.
type Reservation struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	UserID    ID     `json:"userId" db:"user_id"`
	UserEmail string `json:"userEmail" db:"user_email"`
	UserName  string `json:"userName" db:"user_name"`

	Venue   string `json:"venue" db:"venue_id"`
	Purpose string `json:"purpose" db:"purpose"`
	Date    string `json:"date" db:"res_date"`

	StartTime string `json:"startTime" db:"start_time"`
	EndTime   string `json:"endTime" db:"end_time"`

	Name            string     `json:"name" db:"display_name"`
	Organization    string     `json:"organization" db:"organization"`
	MaxParticipants int        `json:"maxParticipants" db:"max_participants"`
	Status          string     `json:"status" db:"status"`
	Attendance      StringList `json:"attendance" db:"attendance"`
}

// SessionLog is one visitor login event. Logout is nullable on purpose: an
// open session is login=true with logout unset.
type SessionLog struct {
	ID ID `json:"id" db:"id"`

	Email    string  `json:"email" db:"email"`
	Name     string  `json:"name" db:"name"`
	Position *string `json:"position" db:"position"`
	Terms    bool    `json:"terms" db:"terms"`

	TimeIn  time.Time  `json:"timein" db:"time_in"`
	TimeOut *time.Time `json:"timeout" db:"time_out"`

	Login  bool  `json:"login" db:"login"`
	Logout *bool `json:"logout" db:"logout"`

	Resources *string `json:"resources" db:"resources"`
	Feedback  *string `json:"feedback" db:"feedback"`
}

// DayVisits is one row of the monthly per-day distinct-visitor aggregation.
type DayVisits struct {
	Day      time.Time `db:"visit_day"`
	Visitors int       `db:"visitors"`
}

// StringList stores a []string as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch src := src.(type) {
	case []byte:
		data = src
	case string:
		data = []byte(src)
	default:
		return fmt.Errorf("stringlist: unsupported scan type %T", src)
	}

	return json.Unmarshal(data, l)
}
