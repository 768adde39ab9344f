// Package report produces the scheduled visitor reports: a daily attendance
// CSV emailed as an attachment, and a monthly per-day visitor summary. Both
// run outside the request path; failures are logged and retried on the next
// cycle, never fatal.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deskhive/deskhive/internal/model"
)

const _dayLayout = "2006-01-02"

// Store is the session aggregation surface the exporter needs. Implemented
// by database.SessionLogDAO.
type Store interface {
	SessionsForDay(ctx context.Context, day time.Time) ([]model.SessionLog, error)
	DistinctVisits(ctx context.Context, year, month, day int) (int, error)
	VisitsByDay(ctx context.Context, year, month int) ([]model.DayVisits, error)
}

type Message struct {
	Subject        string
	Body           string
	AttachmentPath string
}

type Mailer interface {
	Send(msg Message) error
}

type Exporter struct {
	logger    *slog.Logger
	store     Store
	mailer    Mailer
	dir       string
	recipient string
	now       func() time.Time
}

// NewExporter wires an exporter. A nil mailer means mail credentials are not
// configured; the export jobs then log and return without doing anything.
func NewExporter(logger *slog.Logger, store Store, mailer Mailer, dir, recipient string, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		logger:    logger.With("module", "report"),
		store:     store,
		mailer:    mailer,
		dir:       dir,
		recipient: recipient,
		now:       now,
	}
}

// ExportDaily re-attempts delivery of any leftover CSV files from previous
// days, then exports and mails today's attendance. The CSV is deleted only
// after a successful send, so a failed send is retried on the next run.
func (e *Exporter) ExportDaily(ctx context.Context) error {
	if e.mailer == nil {
		e.logger.Warn("mail credentials not configured, skipping daily export")
		return nil
	}

	today := e.now()
	dateStr := today.Format(_dayLayout)

	e.retryUnsent(dateStr + ".csv")

	sessions, err := e.store.SessionsForDay(ctx, today)
	if err != nil {
		return fmt.Errorf("daily export: %w", err)
	}
	if len(sessions) == 0 {
		e.logger.Info("no session logs found for today", "date", dateStr)
		return nil
	}

	path := filepath.Join(e.dir, dateStr+".csv")
	if err := writeSessionsCSV(path, sessions); err != nil {
		return fmt.Errorf("daily export: %w", err)
	}

	visits, err := e.store.DistinctVisits(ctx, today.Year(), int(today.Month()), today.Day())
	if err != nil {
		return fmt.Errorf("daily export: %w", err)
	}

	body := fmt.Sprintf(
		"Attached is today's attendance CSV for the co-working space.\n\nDate: %s\nUnique Visitors Today: %d",
		dateStr, visits,
	)

	return e.sendCSV(path, dateStr, body)
}

// ExportMonthly mails the per-day distinct-visitor summary for the current
// month, no attachment.
func (e *Exporter) ExportMonthly(ctx context.Context) error {
	if e.mailer == nil {
		e.logger.Warn("mail credentials not configured, skipping monthly report")
		return nil
	}

	now := e.now()
	year, month := now.Year(), now.Month()

	visitsByDay, err := e.store.VisitsByDay(ctx, year, int(month))
	if err != nil {
		return fmt.Errorf("monthly report: %w", err)
	}

	total := 0
	for _, day := range visitsByDay {
		total += day.Visitors
	}

	var report strings.Builder
	fmt.Fprintf(&report, "Monthly Visitor Report - %s %d\n", month, year)
	fmt.Fprintf(&report, "Total Unique Visitors: %d\n\n", total)
	for _, day := range visitsByDay {
		fmt.Fprintf(&report, "%s: %d visitor(s)\n", day.Day.Format("January 02"), day.Visitors)
	}

	subject := fmt.Sprintf("Monthly Visitor Report - %s %d", month, year)

	if err := e.mailer.Send(Message{Subject: subject, Body: report.String()}); err != nil {
		return fmt.Errorf("monthly report: %w", err)
	}

	e.logger.Info("monthly summary sent", "recipient", e.recipient, "month", month.String(), "year", year)

	return nil
}

// retryUnsent sweeps the export directory for date-named CSV files left over
// from failed sends, excluding today's. Each file is retried independently.
func (e *Exporter) retryUnsent(todayName string) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		e.logger.Warn("failed to scan export dir", "dir", e.dir, "error", err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") || name == todayName {
			continue
		}

		dateStr := strings.TrimSuffix(name, ".csv")
		if _, err := time.Parse(_dayLayout, dateStr); err != nil {
			continue
		}

		if err := e.sendCSV(filepath.Join(e.dir, name), dateStr, ""); err != nil {
			e.logger.Warn("retry failed", "file", name, "error", err)
		}
	}
}

func (e *Exporter) sendCSV(path, dateStr, body string) error {
	if body == "" {
		body = "Attached is the attendance CSV."
	}

	msg := Message{
		Subject:        fmt.Sprintf("Attendance (%s) Co-working Space", dateStr),
		Body:           body,
		AttachmentPath: path,
	}

	if err := e.mailer.Send(msg); err != nil {
		e.logger.Warn("failed to send attendance email", "file", path, "error", err)
		return err
	}

	e.logger.Info("attendance email sent", "recipient", e.recipient, "file", path)

	if err := os.Remove(path); err != nil {
		e.logger.Warn("failed to delete sent file", "file", path, "error", err)
		return nil
	}

	e.logger.Info("deleted file after successful email", "file", path)

	return nil
}

// LastDayOfMonth reports whether t falls on its month's final day. The cron
// library has no last-day-of-month trigger, so the monthly job runs daily
// and gates on this.
func LastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}
