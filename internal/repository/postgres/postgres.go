package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weatherform/backend/internal/domain"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS weather_reports (
		id          UUID PRIMARY KEY,
		mode        TEXT NOT NULL,
		query       TEXT NOT NULL,
		units       TEXT NOT NULL,
		location    TEXT NOT NULL,
		country     TEXT NOT NULL,
		temperature TEXT NOT NULL,
		feels_like  TEXT NOT NULL,
		temp_min    TEXT NOT NULL,
		temp_max    TEXT NOT NULL,
		pressure    TEXT NOT NULL,
		humidity    TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS weather_reports_created_at_idx ON weather_reports (created_at DESC)`,
}

// PostgresRepository implements domain.ReportRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the reports table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveReport persists a report to PostgreSQL
func (r *PostgresRepository) SaveReport(ctx context.Context, rep domain.Report) error {
	query := `
		INSERT INTO weather_reports (
			id, mode, query, units, location, country, temperature, feels_like,
			temp_min, temp_max, pressure, humidity, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		rep.ID, string(rep.Mode), rep.Query, string(rep.Units), rep.Location, rep.Country,
		rep.Temperature, rep.FeelsLike, rep.TempMin, rep.TempMax, rep.Pressure, rep.Humidity,
		rep.Description, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save report: %w", err)
	}

	return nil
}

// ListReports retrieves the most recent reports from PostgreSQL
func (r *PostgresRepository) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	query := `
		SELECT id::text, mode, query, units, location, country, temperature, feels_like,
			   temp_min, temp_max, pressure, humidity, description, created_at
		FROM weather_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query reports: %w", err)
	}
	defer rows.Close()

	var results []domain.Report
	for rows.Next() {
		var (
			rep         domain.Report
			id          string
			mode, units string
		)
		err := rows.Scan(
			&id, &mode, &rep.Query, &units, &rep.Location, &rep.Country, &rep.Temperature, &rep.FeelsLike,
			&rep.TempMin, &rep.TempMax, &rep.Pressure, &rep.Humidity, &rep.Description, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan report row: %w", err)
		}
		if rep.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("postgres: bad report id %q: %w", id, err)
		}
		rep.Mode = domain.Mode(mode)
		rep.Units = domain.Units(units)
		results = append(results, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate reports: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
