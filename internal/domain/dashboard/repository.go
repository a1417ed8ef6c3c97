package dashboard

import (
	"context"
	"time"
)

// StatusCounts holds today's Present/Absent totals in a single row
type StatusCounts struct {
	Present int64
	Absent  int64
}

type DashboardRepository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountByStatusOnDate(ctx context.Context, date time.Time) (StatusCounts, error)
	// RecentActivity returns the newest records by creation time
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}
