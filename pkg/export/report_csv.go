package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// reportCSVHeader is the fixed column order of the per-user section.
var reportCSVHeader = []string{
	"User ID", "Name", "Email", "Department",
	"Attendance %", "Engagement Score", "Consistency",
}

// ReportCSV renders a report in the documented CSV layout: three metadata
// lines, a blank separator, the header line, then one row per user. Values
// are joined as-is without quoting or escaping, which matches the format
// consumers already parse. Fields containing commas would corrupt a row;
// the documented layout accepts that.
func ReportCSV(report models.Report) []byte {
	lines := make([]string, 0, len(report.UserStats)+5)
	lines = append(lines,
		fmt.Sprintf("Report Type: %s", report.Type),
		fmt.Sprintf("Period: %s to %s", report.Period.Start, report.Period.End),
		fmt.Sprintf("Generated: %s", report.GeneratedAt),
		"",
		strings.Join(reportCSVHeader, ","),
	)
	for _, stat := range report.UserStats {
		lines = append(lines, strings.Join([]string{
			stat.UserID,
			stat.Name,
			stat.Email,
			stat.Department,
			strconv.Itoa(stat.AttendancePercentage),
			strconv.Itoa(stat.EngagementScore),
			string(stat.ConsistencyLevel),
		}, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}
