package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardRepo struct {
	total    int64
	counts   dashboard.StatusCounts
	activity []dashboard.Activity
	err      error
	gotDate  time.Time
}

func (s *stubDashboardRepo) CountEmployees(context.Context) (int64, error) {
	return s.total, nil
}

func (s *stubDashboardRepo) CountByStatusOnDate(_ context.Context, date time.Time) (dashboard.StatusCounts, error) {
	s.gotDate = date
	return s.counts, s.err
}

func (s *stubDashboardRepo) RecentActivity(_ context.Context, limit int) ([]dashboard.Activity, error) {
	if len(s.activity) > limit {
		return s.activity[:limit], nil
	}
	return s.activity, nil
}

func TestDashboardService_GetStats(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	repo := &stubDashboardRepo{
		total:    5,
		counts:   dashboard.StatusCounts{Present: 2, Absent: 1},
		activity: []dashboard.Activity{{ID: 1, EmployeeName: "Ada"}},
	}
	svc := &DashboardServiceImpl{DashboardRepository: repo, now: func() time.Time { return now }}

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalEmployees)
	assert.Equal(t, int64(3), stats.TodayTotal)
	assert.Equal(t, "66.7", stats.AttendanceRate.String())
	assert.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, now, repo.gotDate)
}

func TestDashboardService_GetStats_Empty(t *testing.T) {
	svc := NewDashboardService(&stubDashboardRepo{})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.AttendanceRate.IsZero())
	assert.NotNil(t, stats.RecentActivity)
}

func TestDashboardService_GetStats_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDashboardService(&stubDashboardRepo{err: boom})

	_, err := svc.GetStats(context.Background())
	assert.ErrorIs(t, err, boom)
}
