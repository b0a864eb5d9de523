package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/archsheet/archsheet/internal/rest"
	"github.com/archsheet/archsheet/pkg/user"
)

type PhaseActualsDTO struct {
	PhaseCode string  `json:"phaseCode"`
	PhaseName string  `json:"phaseName"`
	Hours     float64 `json:"hours"`
}

type ProjectReportDTO struct {
	ProjectNumber  string            `json:"projectNumber"`
	ProjectName    string            `json:"projectName"`
	ClientName     string            `json:"clientName"`
	Phases         []PhaseActualsDTO `json:"phases"`
	ActualHours    float64           `json:"actualHours"`
	BudgetHours    float64           `json:"budgetHours"`
	RemainingHours float64           `json:"remainingHours"`
}

type ReportSummaryDTO struct {
	StartDate  string             `json:"startDate"`
	EndDate    string             `json:"endDate"`
	Projects   []ProjectReportDTO `json:"projects"`
	TotalHours float64            `json:"totalHours"`
}

type Handler struct {
	service     Service
	csvRenderer Renderer
}

func NewHandler(service Service, csvRenderer Renderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer}
}

// GetBudgetReport godoc
// @Summary Budget vs. actual hours per project and phase (managers only)
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param fromDate query string true "Start of the window (YYYY-MM-DD)"
// @Param toDate query string true "End of the window (YYYY-MM-DD)"
// @Success 200 {object} ReportSummaryDTO
// @Failure 403 {object} rest.ErrorResponse "Not a manager"
// @Router /api/report/budget [get]
func (h *Handler) GetBudgetReport(w http.ResponseWriter, r *http.Request) {
	fromDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("fromDate"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid fromDate, expected YYYY-MM-DD"})
		return
	}
	toDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("toDate"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid toDate, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.service.BudgetReport(r.Context(), fromDate, toDate)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case errors.Is(err, user.ErrNoUser):
			w.WriteHeader(http.StatusUnauthorized)
		case errors.Is(err, ErrReportForbidden):
			w.WriteHeader(http.StatusForbidden)
		default:
			log.Errorf("failed to build budget report: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderReport(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryToDTO(summary ReportSummary) ReportSummaryDTO {
	dto := ReportSummaryDTO{
		StartDate:  summary.StartDate.Format(time.DateOnly),
		EndDate:    summary.EndDate.Format(time.DateOnly),
		Projects:   make([]ProjectReportDTO, 0, len(summary.Projects)),
		TotalHours: summary.TotalHours,
	}
	for _, pr := range summary.Projects {
		projectDTO := ProjectReportDTO{
			ProjectNumber:  pr.Project.ProjectNumber,
			ProjectName:    pr.Project.Name,
			ClientName:     pr.Project.ClientName,
			Phases:         make([]PhaseActualsDTO, 0, len(pr.Phases)),
			ActualHours:    pr.ActualHours,
			BudgetHours:    pr.Project.BudgetHours,
			RemainingHours: pr.RemainingHours,
		}
		for _, pa := range pr.Phases {
			projectDTO.Phases = append(projectDTO.Phases, PhaseActualsDTO{
				PhaseCode: pa.Phase.PhaseCode,
				PhaseName: pa.Phase.Name,
				Hours:     pa.Hours,
			})
		}
		dto.Projects = append(dto.Projects, projectDTO)
	}
	return dto
}
