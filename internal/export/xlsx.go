// Package export renders appointment history as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"bookyz/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "תורים"

var headers = []string{"מספר", "ספר", "שירות", "מחיר", "תאריך", "שעה", "סטטוס", "נוצר"}

// AppointmentsXLSX writes one row per appointment, in order, followed by the
// summary counts. Dates are rendered in loc.
func AppointmentsXLSX(w io.Writer, appointments []models.Appointment, summary models.AppointmentSummary, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(sheetName); err == nil {
		f.SetActiveSheet(index)
	}

	if err := f.SetSheetView(sheetName, -1, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
		return fmt.Errorf("error setting sheet view: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, a := range appointments {
		row := i + 2
		values := []interface{}{
			a.ID,
			a.StaffName,
			a.ServiceName,
			a.Price,
			a.Date.In(loc).Format("02.01.2006"),
			a.Time,
			statusLabel(a.Status),
			a.CreatedAt.In(loc).Format("02.01.2006 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}
		if style, err := statusStyle(f, a.Status); err == nil {
			statusCell, _ := excelize.CoordinatesToCellName(7, row)
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, style)
		}
	}

	writeSummary(f, len(appointments)+3, summary, headerStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "H", 18)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, row int, summary models.AppointmentSummary, style int) {
	lines := []struct {
		label string
		value int
	}{
		{"פעילים", summary.Active},
		{"הושלמו", summary.Completed},
		{"בוטלו", summary.Cancelled},
		{"סה\"כ", summary.Total},
	}
	for i, l := range lines {
		labelCell, _ := excelize.CoordinatesToCellName(1, row+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, row+i)
		_ = f.SetCellValue(sheetName, labelCell, l.label)
		_ = f.SetCellStyle(sheetName, labelCell, labelCell, style)
		_ = f.SetCellValue(sheetName, valueCell, l.value)
	}
}

func statusLabel(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "מאושר"
	case models.StatusCompleted:
		return "הושלם"
	case models.StatusCancelled:
		return "בוטל"
	default:
		return status
	}
}

func statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case models.StatusConfirmed:
		color = "#E2EFDA"
	case models.StatusCancelled:
		color = "#F8CBAD"
	default:
		color = "#EDEDED"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func boolPtr(b bool) *bool {
	return &b
}
