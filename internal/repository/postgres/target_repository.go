package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/pkg/errors"
)

type targetRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTargetRepository(db *DB) repository.TargetRepository {
	return &targetRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// targetRow mirrors the target_points table. Latitude and longitude are
// nullable: registration can precede the survey fix.
type targetRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	Module    string          `db:"module"`
	AreaName  string          `db:"area_name"`
	Zone      string          `db:"zone"`
	Ward      string          `db:"ward"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

func (row *targetRow) toDomain() *domain.TargetPoint {
	t := &domain.TargetPoint{
		ID:        row.ID,
		Name:      row.Name,
		Module:    domain.Module(row.Module),
		AreaName:  row.AreaName,
		Zone:      row.Zone,
		Ward:      row.Ward,
		Status:    domain.TargetStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
	if row.Latitude.Valid && row.Longitude.Valid {
		t.Location = &domain.Coordinate{
			Latitude:  row.Latitude.Float64,
			Longitude: row.Longitude.Float64,
		}
	}
	return t
}

const targetColumns = `id, name, module, area_name, zone, ward, latitude, longitude, status, created_at`

func (r *targetRepository) List(ctx context.Context, filter domain.TargetFilter) ([]*domain.TargetPoint, error) {
	query := `SELECT ` + targetColumns + ` FROM target_points WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Module != "" {
		query += fmt.Sprintf(" AND module = $%d", argIdx)
		args = append(args, string(filter.Module))
		argIdx++
	}
	if filter.Zone != "" {
		query += fmt.Sprintf(" AND zone = $%d", argIdx)
		args = append(args, filter.Zone)
		argIdx++
	}
	if filter.Ward != "" {
		query += fmt.Sprintf(" AND ward = $%d", argIdx)
		args = append(args, filter.Ward)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += " ORDER BY created_at, id"

	var rows []targetRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to list target points", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	targets := make([]*domain.TargetPoint, 0, len(rows))
	for i := range rows {
		targets = append(targets, rows[i].toDomain())
	}
	return targets, nil
}

func (r *targetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TargetPoint, error) {
	query := `SELECT ` + targetColumns + ` FROM target_points WHERE id = $1`

	var row targetRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get target point", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return row.toDomain(), nil
}
