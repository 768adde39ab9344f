package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/deskhive/deskhive/internal/model"
	"github.com/deskhive/deskhive/internal/visit"
)

const _dayLayout = "2006-01-02"

type SessionLogDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSessionLogDAO(logger *slog.Logger, db *DB) *SessionLogDAO {
	return &SessionLogDAO{
		Logger: logger.With("dao", "sessionLog"),
		DB:     db,
	}
}

func (dao *SessionLogDAO) forDay(email string, day time.Time) squirrel.SelectBuilder {
	return dao.Builder.
		Select("*").
		From("session_logs").
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Expr("date(time_in) = ?::date", day.Format(_dayLayout)))
}

func (dao *SessionLogDAO) getOne(ctx context.Context, logger *slog.Logger, builder squirrel.SelectBuilder) (model.SessionLog, error) {
	query, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return model.SessionLog{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var session model.SessionLog
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.SessionLog{}, model.NewError("session", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.SessionLog{}, err
	}

	return session, nil
}

func (dao *SessionLogDAO) LatestForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error) {
	logger := dao.Logger.With("query", "latestForDay")

	return dao.getOne(ctx, logger, dao.forDay(email, day).OrderBy("time_in DESC"))
}

func (dao *SessionLogDAO) OpenForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error) {
	logger := dao.Logger.With("query", "openForDay")

	return dao.getOne(ctx, logger, dao.forDay(email, day).
		Where(squirrel.Eq{"login": true}).
		Where(squirrel.Eq{"logout": nil}).
		OrderBy("time_in DESC"))
}

func (dao *SessionLogDAO) LastClosedForDay(ctx context.Context, email string, day time.Time) (model.SessionLog, error) {
	logger := dao.Logger.With("query", "lastClosedForDay")

	return dao.getOne(ctx, logger, dao.forDay(email, day).
		Where(squirrel.Eq{"logout": true}).
		OrderBy("time_out DESC"))
}

func (dao *SessionLogDAO) Insert(ctx context.Context, dto visit.InsertDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("session_logs").
		Columns("email", "name", "position", "terms", "time_in", "login").
		Values(dto.Email, dto.Name, dto.Position, dto.Terms, dto.TimeIn, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		// The partial unique index on open sessions fires when two logins
		// for the same visitor race.
		if IsUniqueViolation(err) {
			return 0, model.NewError("session", model.ErrExists)
		}

		return 0, err
	}

	return id, nil
}

func (dao *SessionLogDAO) Close(ctx context.Context, id model.ID, dto visit.CloseDTO) error {
	logger := dao.Logger.With("query", "close")

	query, args, err := dao.Builder.
		Update("session_logs").
		SetMap(map[string]any{
			"logout":    true,
			"time_out":  dto.TimeOut,
			"resources": dto.Resources,
			"feedback":  dto.Feedback,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	return nil
}

// SessionsForDay returns every session whose time-in falls on the given day,
// in id order, for the daily CSV export.
func (dao *SessionLogDAO) SessionsForDay(ctx context.Context, day time.Time) ([]model.SessionLog, error) {
	logger := dao.Logger.With("query", "sessionsForDay")

	query, args, err := dao.Builder.
		Select("*").
		From("session_logs").
		Where(squirrel.Expr("date(time_in) = ?::date", day.Format(_dayLayout))).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return []model.SessionLog{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	sessions := []model.SessionLog{}
	if err := dao.SelectContext(ctx, &sessions, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.SessionLog{}, err
	}

	return sessions, nil
}

// DistinctVisits counts distinct (email, day) pairs among sessions whose
// time-in falls in the given year and month. A day of zero means the whole
// month. Repeated login/logout cycles by one visitor count once.
func (dao *SessionLogDAO) DistinctVisits(ctx context.Context, year, month, day int) (int, error) {
	logger := dao.Logger.With("query", "distinctVisits")

	inner := dao.Builder.
		Select("email", "date(time_in) AS visit_day").
		From("session_logs").
		Where(squirrel.Expr("extract(year FROM time_in) = ?", year)).
		Where(squirrel.Expr("extract(month FROM time_in) = ?", month)).
		Distinct()
	if day != 0 {
		inner = inner.Where(squirrel.Expr("extract(day FROM time_in) = ?", day))
	}

	query, args, err := dao.Builder.
		Select("count(*)").
		FromSelect(inner, "visits").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&count); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return count, nil
}

// VisitsByDay aggregates distinct visitors per day for one month, for the
// monthly summary report.
func (dao *SessionLogDAO) VisitsByDay(ctx context.Context, year, month int) ([]model.DayVisits, error) {
	logger := dao.Logger.With("query", "visitsByDay")

	query, args, err := dao.Builder.
		Select("date(time_in) AS visit_day", "count(DISTINCT email) AS visitors").
		From("session_logs").
		Where(squirrel.Expr("extract(year FROM time_in) = ?", year)).
		Where(squirrel.Expr("extract(month FROM time_in) = ?", month)).
		GroupBy("date(time_in)").
		OrderBy("visit_day ASC").
		ToSql()
	if err != nil {
		return []model.DayVisits{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	visits := []model.DayVisits{}
	if err := dao.SelectContext(ctx, &visits, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.DayVisits{}, err
	}

	return visits, nil
}

// Reset deletes every session log and restarts the id sequence at 1.
func (dao *SessionLogDAO) Reset(ctx context.Context) error {
	logger := dao.Logger.With("query", "reset")

	query := "TRUNCATE session_logs RESTART IDENTITY"

	logger.Debug("exec query", "sql", query)

	if _, err := dao.ExecContext(ctx, query); err != nil {
		logger.Warn("failed query execute", "error", err)

		return err
	}

	return nil
}
