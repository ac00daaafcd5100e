package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Domenick1991/offercheck/internal/domain"
)

var ErrReportNotFound = errors.New("report not found")

// ReportRepository is the audit store of validation reports.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type PGReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepository {
	return &PGReportRepository{db: db}
}

func (r *PGReportRepository) Save(ctx context.Context, report *domain.Report) error {
	violations, err := json.Marshal(report.Violations)
	if err != nil {
		return fmt.Errorf("encode violations: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO offer_reports (id, digest, status, violations, created_at)
		VALUES ($1, $2, $3, $4, $5)`, report.ID, report.Digest, report.Status, violations, report.CreatedAt)
	return err
}

func (r *PGReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := r.db.QueryRow(ctx, `SELECT id, digest, status, violations, created_at FROM offer_reports WHERE id=$1`, id)

	var (
		report     domain.Report
		violations []byte
	)
	if err := row.Scan(&report.ID, &report.Digest, &report.Status, &violations, &report.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(violations, &report.Violations); err != nil {
		return nil, fmt.Errorf("decode violations: %w", err)
	}
	return &report, nil
}

// DeleteBefore removes reports created before the cutoff and returns how
// many were removed.
func (r *PGReportRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM offer_reports WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ ReportRepository = (*PGReportRepository)(nil)
