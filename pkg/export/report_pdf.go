package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// ReportPDF renders a report as a tabular PDF document with a summary
// block above the per-user table.
func ReportPDF(report models.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("%s ENGAGEMENT REPORT", strings.ToUpper(string(report.Type)))
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", report.Period.Start, report.Period.End), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Users: %d   Avg attendance: %d%%   Avg engagement: %d",
		report.Summary.TotalUsers, report.Summary.AverageAttendance, report.Summary.AverageEngagement), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	colWidth := 190.0 / float64(len(reportCSVHeader))
	for _, header := range reportCSVHeader {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, stat := range report.UserStats {
		cells := []string{
			stat.UserID,
			stat.Name,
			stat.Email,
			stat.Department,
			strconv.Itoa(stat.AttendancePercentage),
			strconv.Itoa(stat.EngagementScore),
			string(stat.ConsistencyLevel),
		}
		for _, cell := range cells {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
