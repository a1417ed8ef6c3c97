package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStats returns directory size, today's attendance and recent activity
	GetStats(ctx context.Context) (*Stats, error)
}
