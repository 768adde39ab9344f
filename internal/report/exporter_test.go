package report

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/model"
)

var testNow = time.Date(2024, time.March, 12, 11, 0, 0, 0, time.UTC)

type mockReportStore struct {
	sessions    []model.SessionLog
	visits      int
	visitsByDay []model.DayVisits
	err         error
}

func (m *mockReportStore) SessionsForDay(_ context.Context, _ time.Time) ([]model.SessionLog, error) {
	return m.sessions, m.err
}

func (m *mockReportStore) DistinctVisits(_ context.Context, _, _, _ int) (int, error) {
	return m.visits, m.err
}

func (m *mockReportStore) VisitsByDay(_ context.Context, _, _ int) ([]model.DayVisits, error) {
	return m.visitsByDay, m.err
}

type mockMailer struct {
	sent    []Message
	sendErr error
}

func (m *mockMailer) Send(msg Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func someSessions() []model.SessionLog {
	position := "member"
	return []model.SessionLog{
		{ID: 1, Email: "bob@x.com", Name: "Bob", Position: &position, Terms: true, TimeIn: testNow, Login: true},
		{ID: 2, Email: "eve@x.com", Name: "Eve", Terms: true, TimeIn: testNow, Login: true},
	}
}

func TestExportDailySendsCSVAndDeletesFile(t *testing.T) {
	dir := t.TempDir()
	store := &mockReportStore{sessions: someSessions(), visits: 2}
	mailer := &mockMailer{}
	exporter := NewExporter(discardLogger(), store, mailer, dir, "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportDaily(context.Background()); err != nil {
		t.Fatalf("ExportDaily() error = %v, want nil", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.Subject != "Attendance (2024-03-12) Co-working Space" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Unique Visitors Today: 2") {
		t.Errorf("body missing visitor count: %q", msg.Body)
	}
	if filepath.Base(msg.AttachmentPath) != "2024-03-12.csv" {
		t.Errorf("attachment = %q, want 2024-03-12.csv", msg.AttachmentPath)
	}

	if _, err := os.Stat(msg.AttachmentPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("CSV file still exists after successful send")
	}
}

func TestExportDailyKeepsFileOnSendFailure(t *testing.T) {
	dir := t.TempDir()
	store := &mockReportStore{sessions: someSessions(), visits: 2}
	mailer := &mockMailer{sendErr: errors.New("smtp down")}
	exporter := NewExporter(discardLogger(), store, mailer, dir, "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportDaily(context.Background()); err == nil {
		t.Fatal("ExportDaily() error = nil, want error")
	}

	if _, err := os.Stat(filepath.Join(dir, "2024-03-12.csv")); err != nil {
		t.Errorf("CSV file missing after failed send: %v", err)
	}
}

func TestExportDailyNoSessionsSendsNothing(t *testing.T) {
	dir := t.TempDir()
	mailer := &mockMailer{}
	exporter := NewExporter(discardLogger(), &mockReportStore{}, mailer, dir, "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportDaily(context.Background()); err != nil {
		t.Fatalf("ExportDaily() error = %v, want nil", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(mailer.sent))
	}
}

func TestExportDailyNilMailerSkips(t *testing.T) {
	exporter := NewExporter(discardLogger(), &mockReportStore{sessions: someSessions()}, nil, t.TempDir(), "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportDaily(context.Background()); err != nil {
		t.Fatalf("ExportDaily() error = %v, want nil", err)
	}
}

func TestExportDailyRetriesLeftoverFiles(t *testing.T) {
	dir := t.TempDir()

	leftover := filepath.Join(dir, "2024-03-10.csv")
	if err := os.WriteFile(leftover, []byte("ID,Email\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Not date-named, must be ignored.
	ignored := filepath.Join(dir, "notes.csv")
	if err := os.WriteFile(ignored, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &mockReportStore{sessions: someSessions(), visits: 2}
	mailer := &mockMailer{}
	exporter := NewExporter(discardLogger(), store, mailer, dir, "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportDaily(context.Background()); err != nil {
		t.Fatalf("ExportDaily() error = %v, want nil", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (retry + today)", len(mailer.sent))
	}
	if mailer.sent[0].Subject != "Attendance (2024-03-10) Co-working Space" {
		t.Errorf("retry subject = %q", mailer.sent[0].Subject)
	}

	if _, err := os.Stat(leftover); !errors.Is(err, os.ErrNotExist) {
		t.Error("leftover file still exists after successful retry")
	}
	if _, err := os.Stat(ignored); err != nil {
		t.Error("non-date CSV was touched by the retry sweep")
	}
}

func TestExportMonthly(t *testing.T) {
	store := &mockReportStore{
		visitsByDay: []model.DayVisits{
			{Day: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Visitors: 3},
			{Day: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Visitors: 1},
		},
	}
	mailer := &mockMailer{}
	exporter := NewExporter(discardLogger(), store, mailer, t.TempDir(), "ops@x.com", fixedClock(testNow))

	if err := exporter.ExportMonthly(context.Background()); err != nil {
		t.Fatalf("ExportMonthly() error = %v, want nil", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.Subject != "Monthly Visitor Report - March 2024" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if msg.AttachmentPath != "" {
		t.Errorf("monthly report has attachment %q, want none", msg.AttachmentPath)
	}
	for _, want := range []string{"Total Unique Visitors: 4", "March 01: 3 visitor(s)", "March 05: 1 visitor(s)"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC), true},
		{time.Date(2024, time.February, 28, 23, 59, 0, 0, time.UTC), false},
		{time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		if got := LastDayOfMonth(tt.day); got != tt.want {
			t.Errorf("LastDayOfMonth(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}
