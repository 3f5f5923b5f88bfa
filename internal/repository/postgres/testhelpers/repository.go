package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB around the test connection.
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewTargetRepositoryForTest creates a target repository on the test database.
func NewTargetRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.TargetRepository {
	return postgres.NewTargetRepository(NewDBForTest(db, logger))
}

// NewReportRepositoryForTest creates a report repository on the test database.
func NewReportRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ReportRepository {
	return postgres.NewReportRepository(NewDBForTest(db, logger))
}
