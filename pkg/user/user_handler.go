package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archsheet/archsheet/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid        string  `json:"uid"`
	Email      string  `json:"email"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Role       Role    `json:"role"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	IsActive   bool    `json:"isActive"`
	ManagerUid string  `json:"managerUid,omitempty"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CurrentUser godoc
// @Summary Get the signed-in user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/user/current [get]
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Not authenticated"})
			return
		}
		log.Errorf("failed to get current user: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto, err := h.userToDTO(r, currentUser)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetAvailableUsers godoc
// @Summary List all users in the firm directory
// @Tags User
// @Produce json
// @Success 200 {array} UserDTO
// @Router /api/user [get]
func (h *Handler) GetAvailableUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dto, err := h.userToDTO(r, u)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		dtos = append(dtos, dto)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) userToDTO(r *http.Request, u User) (UserDTO, error) {
	dto := UserDTO{
		Uid:        u.Uid,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		HourlyRate: u.HourlyRate,
		IsActive:   u.IsActive,
	}
	if u.ManagerId != 0 {
		manager, err := h.userService.GetUser(r.Context(), u.ManagerId)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return UserDTO{}, err
		}
		dto.ManagerUid = manager.Uid
	}
	return dto, nil
}
