package memory

import (
	"context"
	"sync"

	"github.com/weatherform/backend/internal/domain"
)

const maxReports = 500

// Repository keeps reports in process memory. Used when no database is configured.
type Repository struct {
	mu      sync.RWMutex
	reports []domain.Report
}

// NewRepository creates an empty in-memory repository
func NewRepository() *Repository {
	return &Repository{reports: make([]domain.Report, 0, 64)}
}

// SaveReport appends a report, dropping the oldest beyond maxReports
func (r *Repository) SaveReport(ctx context.Context, rep domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	if len(r.reports) > maxReports {
		r.reports = r.reports[len(r.reports)-maxReports:]
	}
	return nil
}

// ListReports returns up to limit reports, newest first
func (r *Repository) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.reports)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Report, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.reports[i])
	}
	return out, nil
}

// Health always returns nil
func (r *Repository) Health(ctx context.Context) error {
	return nil
}
