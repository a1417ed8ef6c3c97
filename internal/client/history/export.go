package history

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportColumns = []struct {
	header string
	width  float64
}{
	{"Employee ID", 14},
	{"Employee Name", 28},
	{"Department", 16},
	{"Date", 12},
	{"Status", 10},
}

// ExportXLSX writes the history as a single-sheet workbook. Records whose
// employee is no longer in the directory are kept with "Unknown" name.
func ExportXLSX(w io.Writer, records []attendance.AttendanceResponse, employees []employee.EmployeeResponse) error {
	byID := make(map[int64]employee.EmployeeResponse, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0EBF5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	presentStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "1E7B34"}})
	if err != nil {
		return fmt.Errorf("failed to create status style: %w", err)
	}
	absentStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "B42318"}})
	if err != nil {
		return fmt.Errorf("failed to create status style: %w", err)
	}

	headers := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		if err := sw.SetColWidth(i+1, i+1, col.width); err != nil {
			return err
		}
		headers[i] = excelize.Cell{Value: col.header, StyleID: headerStyle}
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, rec := range records {
		emp, ok := byID[rec.EmployeeID]
		if !ok {
			emp = employee.EmployeeResponse{EmployeeID: "-", FullName: "Unknown", Department: "-"}
		}

		statusStyle := presentStyle
		if rec.Status == attendance.StatusAbsent {
			statusStyle = absentStyle
		}

		cell, err := recordCell(i)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{
			emp.EmployeeID,
			emp.FullName,
			emp.Department,
			rec.Day(),
			excelize.Cell{Value: string(rec.Status), StyleID: statusStyle},
		}); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// recordCell names the first cell of the i-th record's row, below the header.
func recordCell(i int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(1, i+2)
	if err != nil {
		return "", fmt.Errorf("record %d does not fit in the sheet: %w", i, err)
	}
	return cell, nil
}
