package overhead

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	Id           int    `json:"id"`
	CategoryCode string `json:"categoryCode"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	categories, err := h.repo.GetAll(r.Context(), includeInactive)
	if err != nil {
		log.Errorf("failed to list overhead categories: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, CategoryDTO{
			Id:           c.Id,
			CategoryCode: c.CategoryCode,
			Name:         c.Name,
			Description:  c.Description,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
