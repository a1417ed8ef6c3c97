package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}

// CountByStatusOnDate implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountByStatusOnDate(ctx context.Context, date time.Time) (dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Present'),
			COUNT(*) FILTER (WHERE status = 'Absent')
		FROM attendance
		WHERE date = $1::date
	`

	var counts dashboard.StatusCounts
	if err := q.QueryRow(ctx, query, dates.Format(date)).Scan(&counts.Present, &counts.Absent); err != nil {
		return dashboard.StatusCounts{}, fmt.Errorf("count attendance by status: %w", err)
	}
	return counts, nil
}

// RecentActivity implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) RecentActivity(ctx context.Context, limit int) ([]dashboard.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, e.full_name, e.employee_id, a.date, a.status, a.created_at
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	activity := make([]dashboard.Activity, 0, limit)
	for rows.Next() {
		var (
			item      dashboard.Activity
			day       time.Time
			createdAt time.Time
		)
		if err := rows.Scan(&item.ID, &item.EmployeeID, &item.EmployeeName, &item.EmployeeEmployeeID,
			&day, &item.Status, &createdAt); err != nil {
			return nil, err
		}
		item.Date = dates.Format(day)
		item.CreatedAt = createdAt.Format(time.RFC3339)
		activity = append(activity, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activity, nil
}
