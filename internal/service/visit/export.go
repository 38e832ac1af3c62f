package visit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/jung-kurt/gofpdf"
)

var csvHeaders = []string{
	"Date", "Time", "Employee", "Customer", "Purpose", "Status", "Latitude", "Longitude",
	"Notes", "Prospect Status", "Potential Value", "Follow Up", "Marketing Notes", "Products",
}

func writeCSV(w io.Writer, rows []visit.Visit, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	for _, v := range rows {
		local := v.VisitTime.In(loc)
		record := []string{
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			nameOr(v.UserName),
			nameOr(v.CustomerName),
			string(v.Purpose),
			string(v.Status),
			strconv.FormatFloat(v.Latitude, 'f', 6, 64),
			strconv.FormatFloat(v.Longitude, 'f', 6, 64),
			deref(v.Notes),
			"",
			"",
			"",
			deref(v.MarketingNotes),
			productNames(v.Products),
		}
		if v.ProspectStatus != nil {
			record[9] = string(*v.ProspectStatus)
		}
		if v.PotentialValue.Valid {
			record[10] = v.PotentialValue.Decimal.String()
		}
		if v.FollowUpAt != nil {
			record[11] = v.FollowUpAt.In(loc).Format("2006-01-02")
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// pdfColumns are the widths in mm of the visit table; they add up to the
// printable width of an A4 page with 15 mm margins.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"No", 10},
	{"Tanggal", 24},
	{"Waktu", 18},
	{"Karyawan", 34},
	{"Nasabah", 38},
	{"Tujuan", 36},
	{"Status", 20},
}

func writePDF(w io.Writer, rows []visit.Visit, filter visit.ListFilter, loc *time.Location, printedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Laporan Kunjungan Nasabah", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Presensi Pintar & Kunjungan Nasabah", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Tanggal Cetak: "+printedAt.In(loc).Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	if lines := filterLines(filter); len(lines) > 0 {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 5, "Filter:")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		for _, line := range lines {
			pdf.Cell(0, 5, "  "+line)
			pdf.Ln(5)
		}
		pdf.Ln(2)
	}

	counts := map[visit.Status]int{}
	for _, v := range rows {
		counts[v.Status]++
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Ringkasan:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Total Kunjungan: %d", len(rows)),
		fmt.Sprintf("Disetujui: %d", counts[visit.StatusApproved]),
		fmt.Sprintf("Pending: %d", counts[visit.StatusPending]),
		fmt.Sprintf("Ditolak: %d", counts[visit.StatusRejected]),
	} {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 8)
	for i, v := range rows {
		local := v.VisitTime.In(loc)
		cells := []string{
			strconv.Itoa(i + 1),
			local.Format("02/01/2006"),
			local.Format("15:04"),
			nameOr(v.UserName),
			nameOr(v.CustomerName),
			v.Purpose.Label(),
			string(v.Status),
		}
		for c, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, tr(truncate(cells[c], col.width)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func filterLines(f visit.ListFilter) []string {
	var lines []string
	if f.StartDate != nil {
		lines = append(lines, "Dari: "+*f.StartDate)
	}
	if f.EndDate != nil {
		lines = append(lines, "Sampai: "+*f.EndDate)
	}
	if f.UserID != nil {
		lines = append(lines, "User ID: "+*f.UserID)
	}
	if f.CustomerID != nil {
		lines = append(lines, "Customer ID: "+*f.CustomerID)
	}
	return lines
}

// truncate keeps a cell on one line at 8pt, roughly 2 mm per character.
func truncate(s string, width float64) string {
	limit := int(width / 2)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "."
}

func productNames(products []visit.Product) string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.ProductName
	}
	return strings.Join(names, "; ")
}

func nameOr(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
