package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/deskhive/deskhive/internal/model"
)

// Header of the daily attendance export. Consumers rely on this exact
// column order.
var csvHeader = []string{
	"ID", "Email", "Name", "Position", "Terms",
	"Time In", "Time Out", "Login", "Logout",
	"Resources", "Feedback",
}

const _timestampLayout = "2006-01-02 15:04:05"

func writeSessionsCSV(path string, sessions []model.SessionLog) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range sessions {
		record := []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.Email,
			s.Name,
			stringOrEmpty(s.Position),
			strconv.FormatBool(s.Terms),
			s.TimeIn.Format(_timestampLayout),
			timeOrEmpty(s.TimeOut),
			strconv.FormatBool(s.Login),
			boolOrEmpty(s.Logout),
			stringOrEmpty(s.Resources),
			stringOrEmpty(s.Feedback),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return file.Close()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(_timestampLayout)
}

func boolOrEmpty(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
