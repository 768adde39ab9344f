package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/deskhive/deskhive/internal/model"
)

type ReservationDAO struct {
	Logger *slog.Logger
	*DB
}

func NewReservationDAO(logger *slog.Logger, db *DB) *ReservationDAO {
	return &ReservationDAO{
		Logger: logger.With("dao", "reservation"),
		DB:     db,
	}
}

// Every read joins the owning user so responses can carry the owner's email
// and display name without a second query.
var _reservationColumns = []string{
	"r.id", "r.created_at", "r.user_id",
	"u.email AS user_email", "u.name AS user_name",
	"r.venue_id", "r.purpose", "r.res_date", "r.start_time", "r.end_time",
	"r.display_name", "r.organization", "r.max_participants", "r.status",
	"r.attendance",
}

func (dao *ReservationDAO) selectReservations() squirrel.SelectBuilder {
	return dao.Builder.
		Select(_reservationColumns...).
		From("reservations r").
		Join("users u ON u.id = r.user_id")
}

type InsertReservationDTO struct {
	UserID          model.ID
	VenueID         string
	Purpose         string
	Date            string
	StartTime       string
	EndTime         string
	Name            string
	Organization    string
	MaxParticipants int
	Status          string
}

func (dao *ReservationDAO) Insert(ctx context.Context, dto InsertReservationDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("reservations").
		Columns(
			"user_id", "venue_id", "purpose", "res_date",
			"start_time", "end_time", "display_name", "organization",
			"max_participants", "status",
		).
		Values(
			dto.UserID, dto.VenueID, dto.Purpose, dto.Date,
			dto.StartTime, dto.EndTime, dto.Name, dto.Organization,
			dto.MaxParticipants, dto.Status,
		).
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

		// The exclusion constraint is the backstop for two requests racing
		// past the application-level conflict check.
		if IsExclusionViolation(err) {
			return 0, model.NewError("reservation", model.ErrConflict)
		}

		return 0, err
	}

	return id, nil
}

func (dao *ReservationDAO) Get(ctx context.Context, id model.ID) (model.Reservation, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.selectReservations().
		Where(squirrel.Eq{"r.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var reservation model.Reservation
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&reservation); err != nil {
		if IsNoRows(err) {
			return model.Reservation{}, model.NewError("reservation", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Reservation{}, err
	}

	return reservation, nil
}

// FindForVenueAndDate returns the existing bookings the conflict check runs
// against.
func (dao *ReservationDAO) FindForVenueAndDate(ctx context.Context, venueID, date string) ([]model.Reservation, error) {
	logger := dao.Logger.With("query", "findForVenueAndDate")

	query, args, err := dao.selectReservations().
		Where(squirrel.Eq{"r.venue_id": venueID}).
		Where(squirrel.Eq{"r.res_date": date}).
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return []model.Reservation{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	reservations := []model.Reservation{}
	if err := dao.SelectContext(ctx, &reservations, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Reservation{}, err
	}

	return reservations, nil
}

func (dao *ReservationDAO) FindAll(ctx context.Context) ([]model.Reservation, error) {
	return dao.find(ctx, nil)
}

func (dao *ReservationDAO) FindByUser(ctx context.Context, userID model.ID) ([]model.Reservation, error) {
	return dao.find(ctx, squirrel.Eq{"r.user_id": userID})
}

func (dao *ReservationDAO) find(ctx context.Context, where any) ([]model.Reservation, error) {
	logger := dao.Logger.With("query", "find")

	builder := dao.selectReservations().OrderBy("r.id ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return []model.Reservation{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	reservations := []model.Reservation{}
	if err := dao.SelectContext(ctx, &reservations, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Reservation{}, err
	}

	return reservations, nil
}

func (dao *ReservationDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	query, args, err := dao.Builder.
		Delete("reservations").
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

// SetAttendance overwrites the attendance list and reports how many rows
// matched. Callers decide whether a zero count matters.
func (dao *ReservationDAO) SetAttendance(ctx context.Context, id model.ID, attendance model.StringList) (int64, error) {
	logger := dao.Logger.With("query", "setAttendance")

	query, args, err := dao.Builder.
		Update("reservations").
		SetMap(map[string]any{
			"attendance": attendance,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	result, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return result.RowsAffected()
}
