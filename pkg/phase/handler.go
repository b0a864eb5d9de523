package phase

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type PhaseDTO struct {
	Id           int    `json:"id"`
	PhaseCode    string `json:"phaseCode"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPhases godoc
// @Summary List standard project phases
// @Tags Phase
// @Produce json
// @Success 200 {array} PhaseDTO
// @Router /api/phase [get]
func (h *Handler) ListPhases(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	phases, err := h.service.GetAll(r.Context(), includeInactive)
	if err != nil {
		log.Errorf("failed to list phases: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]PhaseDTO, 0, len(phases))
	for _, p := range phases {
		dtos = append(dtos, PhaseDTO{
			Id:           p.Id,
			PhaseCode:    p.PhaseCode,
			Name:         p.Name,
			Description:  p.Description,
			DisplayOrder: p.DisplayOrder,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
