package database

import (
	"context"
	"log/slog"

	"github.com/deskhive/deskhive/internal/model"
)

type VenueDAO struct {
	Logger *slog.Logger
	*DB
}

func NewVenueDAO(logger *slog.Logger, db *DB) *VenueDAO {
	return &VenueDAO{
		Logger: logger.With("dao", "venue"),
		DB:     db,
	}
}

// FindAll returns the seeded venue list in id order.
func (dao *VenueDAO) FindAll(ctx context.Context) ([]model.Venue, error) {
	logger := dao.Logger.With("query", "findAll")

	query, args, err := dao.Builder.
		Select("*").
		From("venues").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return []model.Venue{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	venues := []model.Venue{}
	if err := dao.SelectContext(ctx, &venues, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Venue{}, err
	}

	return venues, nil
}
