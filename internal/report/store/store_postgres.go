package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"smartbin/internal/domain"
	"smartbin/pkg/platform/sentinel"
)

// PostgresStore persists reports in the reports table. Status transitions use
// guarded UPDATEs so two racing writers cannot both win the same transition.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const reportColumns = `id, type, status, description, location, lat, lng, photo, priority,
	reported_by, created_at, resolved_at, resolved_by, resolution_notes, resolution_type, points_awarded`

func (s *PostgresStore) Create(ctx context.Context, report *domain.Report) error {
	var lat, lng sql.NullFloat64
	if report.Coordinates != nil {
		lat = sql.NullFloat64{Float64: report.Coordinates.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: report.Coordinates.Lng, Valid: true}
	}

	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		report.ID, report.Type, report.Status, report.Description, report.Location,
		lat, lng, report.Photo, report.Priority, report.ReportedBy, report.Timestamp,
		report.ResolvedAt, report.ResolvedBy, report.ResolutionNotes, report.ResolutionType,
		report.PointsAwarded,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row)
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	if filter.Type != nil {
		query += ` AND type = ` + arg(*filter.Type)
	}
	if filter.ReportedBy != "" {
		query += ` AND reported_by = ` + arg(filter.ReportedBy)
	}
	if filter.CreatedAfter != nil {
		query += ` AND created_at > ` + arg(*filter.CreatedAfter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, from, to domain.ReportStatus) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE reports SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING `+reportColumns,
		to, id, from,
	)
	report, err := scanReport(row)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return report, err
}

func (s *PostgresStore) Resolve(ctx context.Context, id string, res domain.Resolution) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE reports
		SET status = $1, resolved_at = $2, resolved_by = $3,
		    resolution_notes = $4, resolution_type = $5, points_awarded = $6
		WHERE id = $7 AND status <> $1
		RETURNING `+reportColumns,
		domain.StatusResolved, res.ResolvedAt, res.ResolvedBy,
		res.Notes, res.Type, res.PointsAwarded, id,
	)
	report, err := scanReport(row)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return report, err
}

// classifyMiss distinguishes "row absent" from "guard failed" after a guarded
// UPDATE matched nothing.
func (s *PostgresStore) classifyMiss(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check report existence: %w", err)
	}
	if exists {
		return sentinel.ErrInvalidState
	}
	return sentinel.ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var r domain.Report
	var lat, lng sql.NullFloat64
	var resolvedAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.Type, &r.Status, &r.Description, &r.Location, &lat, &lng,
		&r.Photo, &r.Priority, &r.ReportedBy, &r.Timestamp, &resolvedAt,
		&r.ResolvedBy, &r.ResolutionNotes, &r.ResolutionType, &r.PointsAwarded,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	if lat.Valid && lng.Valid {
		r.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if resolvedAt.Valid {
		at := resolvedAt.Time
		r.ResolvedAt = &at
	}
	return &r, nil
}
