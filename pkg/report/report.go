package report

import (
	"time"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
)

// PhaseActuals is the approved hour total logged against one phase of a
// project in the reporting window.
type PhaseActuals struct {
	Phase phase.Phase
	Hours float64
}

type ProjectReport struct {
	Project project.Project
	Phases  []PhaseActuals
	// ActualHours is the sum of the phase actuals.
	ActualHours float64
	// RemainingHours is the project budget minus all-time actuals; negative
	// when the project is over budget.
	RemainingHours float64
}

// ReportSummary compares approved hours against project budgets over an
// inclusive date range.
type ReportSummary struct {
	StartDate  time.Time
	EndDate    time.Time
	Projects   []ProjectReport
	TotalHours float64
}
