package project

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type ProjectDTO struct {
	Id            int     `json:"id"`
	ProjectNumber string  `json:"projectNumber"`
	Name          string  `json:"name"`
	ClientName    string  `json:"clientName"`
	Description   string  `json:"description,omitempty"`
	StartDate     string  `json:"startDate"`
	BudgetHours   float64 `json:"budgetHours,omitempty"`
	IsActive      bool    `json:"isActive"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListProjects godoc
// @Summary List projects hours can be logged against
// @Tags Project
// @Produce json
// @Param includeInactive query bool false "Include inactive projects"
// @Success 200 {array} ProjectDTO
// @Router /api/project [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	projects, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		log.Errorf("failed to list projects: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, projectToDTO(p))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func projectToDTO(p Project) ProjectDTO {
	var startDate string
	if !p.StartDate.IsZero() {
		startDate = p.StartDate.Format(time.DateOnly)
	}
	return ProjectDTO{
		Id:            p.Id,
		ProjectNumber: p.ProjectNumber,
		Name:          p.Name,
		ClientName:    p.ClientName,
		Description:   p.Description,
		StartDate:     startDate,
		BudgetHours:   p.BudgetHours,
		IsActive:      p.IsActive,
	}
}
