package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
)

// txFunc runs fn atomically; repositories join through the context it receives.
type txFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type AttendanceServiceImpl struct {
	withTx         txFunc
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	now            func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, err := req.ParsedDate()
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "date must be in YYYY-MM-DD format"},
		}
	}

	var created attendance.Attendance
	err = s.withTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employeeRepo.GetByID(txCtx, req.EmployeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return fmt.Errorf("%w: id %d", attendance.ErrEmployeeNotFound, req.EmployeeID)
			}
			return err
		}

		exists, err := s.attendanceRepo.ExistsForEmployeeOnDate(txCtx, req.EmployeeID, day)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: employee %d on %s", attendance.ErrAlreadyMarked, req.EmployeeID, req.Date)
		}

		created, err = s.attendanceRepo.Create(txCtx, attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       day,
			Status:     req.Status,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Marked attendance", "employee_id", created.EmployeeID, "date", req.Date, "status", created.Status)
	return created.ToResponse(), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, rec.ToResponse())
	}
	return responses, nil
}
