package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deskhive/deskhive/internal/database"
	"github.com/deskhive/deskhive/internal/report"
)

// scheduleJobs starts the background export scheduler: the daily attendance
// CSV at 11:00 and the monthly summary at 23:59 on the month's last day.
// The jobs run with their own database session, independent of the request
// path.
func (app *application) scheduleJobs() (*cron.Cron, error) {
	dao := database.NewSessionLogDAO(app.logger, app.db)

	var mailer report.Mailer
	if app.config.mail.sender != "" && app.config.mail.password != "" {
		mailer = report.NewSMTPMailer(
			app.config.mail.host,
			app.config.mail.port,
			app.config.mail.sender,
			app.config.mail.password,
			app.config.mail.recipient,
		)
	} else {
		app.logger.Warn("MAIL_SENDER or MAIL_PASSWORD not set, export jobs will be skipped")
	}

	exporter := report.NewExporter(app.logger, dao, mailer, app.config.exportDir, app.config.mail.recipient, nil)

	scheduler := cron.New()

	if _, err := scheduler.AddFunc("0 11 * * *", func() {
		app.runJob("dailyExport", exporter.ExportDaily)
	}); err != nil {
		return nil, err
	}

	// Cron has no last-day-of-month trigger, so fire every evening and gate.
	if _, err := scheduler.AddFunc("59 23 * * *", func() {
		if !report.LastDayOfMonth(time.Now()) {
			return
		}
		app.runJob("monthlySummary", exporter.ExportMonthly)
	}); err != nil {
		return nil, err
	}

	scheduler.Start()

	app.logger.Info("scheduler started", "dailyExport", "11:00", "monthlySummary", "23:59 on last day of month")

	return scheduler, nil
}

// runJob executes one scheduled job. Failures are logged, never propagated:
// a broken export must not take the scheduler down.
func (app *application) runJob(name string, job func(context.Context) error) {
	app.wg.Add(1)
	defer app.wg.Done()

	defer func() {
		if p := recover(); p != nil {
			app.logger.Error("job panicked", "job", name, "panic", fmt.Sprint(p))
		}
	}()

	if err := job(context.Background()); err != nil {
		app.logger.Error("job failed", "job", name, "error", err)
	}
}
