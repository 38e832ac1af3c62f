package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

// utf8BOM makes spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

var exportHeaders = []string{
	"Tanggal", "Nama", "Check In", "Check Out",
	"Latitude In", "Longitude In", "Latitude Out", "Longitude Out",
}

func exportRow(a attendance.Attendance, loc *time.Location) []string {
	name := "-"
	if a.UserName != nil {
		name = *a.UserName
	}
	return []string{
		a.AttendanceDate.Format("2006-01-02"),
		name,
		formatClock(a.CheckIn, loc),
		formatClock(a.CheckOut, loc),
		formatCoord(a.CheckInLatitude),
		formatCoord(a.CheckInLongitude),
		formatCoord(a.CheckOutLatitude),
		formatCoord(a.CheckOutLongitude),
	}
}

func writeCSV(w io.Writer, rows []attendance.Attendance, loc *time.Location) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(exportRow(row, loc)); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, rows []attendance.Attendance, loc *time.Location) error {
	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(file.GetActiveSheetIndex())

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}
	for r, row := range rows {
		for c, value := range exportRow(row, loc) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04:05")
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}
