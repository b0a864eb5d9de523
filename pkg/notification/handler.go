package notification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/archsheet/archsheet/internal/rest"
	"github.com/archsheet/archsheet/pkg/user"
)

type NotificationDTO struct {
	Id          int    `json:"id"`
	TimesheetId int    `json:"timesheetId"`
	Message     string `json:"message"`
	CreatedAt   string `json:"createdAt"`
	Read        bool   `json:"read"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListNotifications godoc
// @Summary List the signed-in user's notifications, newest first
// @Tags Notification
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications"
// @Success 200 {array} NotificationDTO
// @Router /api/notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	unreadOnly := r.URL.Query().Has("unreadOnly")

	notifications, err := h.service.ListNotifications(r.Context(), unreadOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, NotificationDTO{
			Id:          n.Id,
			TimesheetId: n.TimesheetId,
			Message:     n.Message,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
			Read:        n.IsRead(),
		})
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notification
// @Produce json
// @Param notificationId path int true "Notification ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 404 {object} rest.ErrorResponse "Notification not found"
// @Router /api/notifications/{notificationId}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := strconv.Atoi(mux.Vars(r)["notificationId"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rest.MessageResponse{Message: "Notification marked as read"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrNotificationNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		log.Errorf("notification request failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
}
