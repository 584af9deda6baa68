package domain

import (
	"context"
)

// ReportRepository defines the interface for report persistence
type ReportRepository interface {
	// SaveReport persists a rendered report
	SaveReport(ctx context.Context, report Report) error

	// ListReports returns up to limit reports, newest first
	ListReports(ctx context.Context, limit int) ([]Report, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
