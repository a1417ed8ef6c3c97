package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

const recentActivityLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		now:                 time.Now,
	}
}

// GetStats runs its three reads in parallel; any failure fails the whole call.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*dashboard.Stats, error) {
	today := s.now()

	var (
		total    int64
		counts   dashboard.StatusCounts
		activity []dashboard.Activity
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		total, err = s.CountEmployees(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		counts, err = s.CountByStatusOnDate(gCtx, today)
		return err
	})

	g.Go(func() error {
		var err error
		activity, err = s.RecentActivity(gCtx, recentActivityLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if activity == nil {
		activity = []dashboard.Activity{}
	}

	todayTotal := counts.Present + counts.Absent
	return &dashboard.Stats{
		TotalEmployees: total,
		TodayPresent:   counts.Present,
		TodayAbsent:    counts.Absent,
		TodayTotal:     todayTotal,
		AttendanceRate: dashboard.AttendanceRate(counts.Present, todayTotal),
		RecentActivity: activity,
	}, nil
}
