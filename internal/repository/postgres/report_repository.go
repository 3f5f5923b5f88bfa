package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/pkg/errors"
)

type reportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReportRepository(db *DB) repository.ReportRepository {
	return &reportRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.ReportSubmission) error {
	answersJSON, err := json.Marshal(report.Answers)
	if err != nil {
		r.logger.Error("Failed to marshal report answers",
			zap.String("report_id", report.ID.String()), zap.Error(err))
		return errors.ErrInternalServer
	}

	query := `
		INSERT INTO reports (id, target_id, module, latitude, longitude, answers, photo_urls, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.TargetID,
		string(report.Module),
		report.Coordinate.Latitude,
		report.Coordinate.Longitude,
		answersJSON,
		pq.Array(report.PhotoURLs()),
		report.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert report",
			zap.String("report_id", report.ID.String()),
			zap.String("target_id", report.TargetID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return nil
}

type reportRow struct {
	ID          uuid.UUID      `db:"id"`
	TargetID    uuid.UUID      `db:"target_id"`
	Module      string         `db:"module"`
	Latitude    float64        `db:"latitude"`
	Longitude   float64        `db:"longitude"`
	Answers     []byte         `db:"answers"`
	PhotoURLs   pq.StringArray `db:"photo_urls"`
	SubmittedAt time.Time      `db:"submitted_at"`
}

func (r *reportRepository) ListByTarget(ctx context.Context, targetID uuid.UUID, limit int) ([]*domain.ReportSubmission, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, target_id, module, latitude, longitude, answers, photo_urls, submitted_at
		FROM reports
		WHERE target_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, targetID, limit); err != nil {
		r.logger.Error("Failed to list reports",
			zap.String("target_id", targetID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	reports := make([]*domain.ReportSubmission, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		report := &domain.ReportSubmission{
			ID:       row.ID,
			TargetID: row.TargetID,
			Module:   domain.Module(row.Module),
			Coordinate: domain.Coordinate{
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			},
			SubmittedAt: row.SubmittedAt,
		}
		if len(row.Answers) > 0 {
			if err := json.Unmarshal(row.Answers, &report.Answers); err != nil {
				r.logger.Warn("Failed to unmarshal report answers",
					zap.String("report_id", row.ID.String()), zap.Error(err))
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}
