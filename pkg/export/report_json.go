package export

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// ReportJSON renders a report as indented JSON, the canonical download
// format consumed by the dashboard frontend.
func ReportJSON(report models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}
