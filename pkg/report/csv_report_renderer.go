package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	RenderReport(summary ReportSummary) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderReport writes one row per (project, phase) bucket, followed by a
// subtotal row per project and a grand total row.
func (t *CsvRendererImpl) RenderReport(summary ReportSummary) (string, error) {
	data := [][]string{
		{"Project", "Client", "Phase", "Hours", "Budget", "Remaining"},
	}
	for _, pr := range summary.Projects {
		for _, pa := range pr.Phases {
			data = append(data, []string{
				pr.Project.ProjectNumber + " " + pr.Project.Name,
				pr.Project.ClientName,
				pa.Phase.PhaseCode,
				hoursToString(pa.Hours),
				"",
				"",
			})
		}
		data = append(data, []string{
			pr.Project.ProjectNumber + " " + pr.Project.Name,
			pr.Project.ClientName,
			"TOTAL",
			hoursToString(pr.ActualHours),
			hoursToString(pr.Project.BudgetHours),
			hoursToString(pr.RemainingHours),
		})
	}
	data = append(data, []string{"SUM", "", "", hoursToString(summary.TotalHours), "", ""})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func hoursToString(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}
