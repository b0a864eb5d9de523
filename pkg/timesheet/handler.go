package timesheet

import (
	"context"
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

type TimesheetDTO struct {
	Id              int     `json:"id"`
	PeriodStart     string  `json:"periodStart"`
	PeriodEnd       string  `json:"periodEnd"`
	Status          Status  `json:"status"`
	TotalHours      float64 `json:"totalHours"`
	SubmittedAt     string  `json:"submittedAt,omitempty"`
	ApprovedAt      string  `json:"approvedAt,omitempty"`
	RejectionReason string  `json:"rejectionReason,omitempty"`
}

// CellDTO is one editable cell of the grid.
type CellDTO struct {
	EntryId int     `json:"entryId"`
	Hours   float64 `json:"hours"`
}

type RowDTO struct {
	ProjectId     int                `json:"projectId"`
	ProjectNumber string             `json:"projectNumber"`
	ProjectName   string             `json:"projectName"`
	ClientName    string             `json:"clientName"`
	PhaseId       int                `json:"phaseId"`
	PhaseCode     string             `json:"phaseCode"`
	PhaseName     string             `json:"phaseName"`
	Cells         map[string]CellDTO `json:"cells"`
	RowTotal      float64            `json:"rowTotal"`
}

// TimesheetViewDTO is the full grid rendering: one row per (project, phase)
// pair, one column per period date, day totals as display strings so the
// no-data marker survives serialization.
type TimesheetViewDTO struct {
	Timesheet  TimesheetDTO      `json:"timesheet"`
	Dates      []string          `json:"dates"`
	Rows       []RowDTO          `json:"rows"`
	DayTotals  map[string]string `json:"dayTotals"`
	GrandTotal float64           `json:"grandTotal"`
}

type createTimesheetRequest struct {
	Date string `json:"date"`
}

type addRowRequest struct {
	ProjectId int `json:"projectId"`
	PhaseId   int `json:"phaseId"`
}

type updateHoursRequest struct {
	Hours string `json:"hours"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListTimesheets godoc
// @Summary List the signed-in user's timesheets, newest period first
// @Tags Timesheet
// @Produce json
// @Success 200 {array} TimesheetDTO
// @Router /api/timesheet [get]
func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	timesheets, err := h.service.ListTimesheets(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]TimesheetDTO, 0, len(timesheets))
	for _, ts := range timesheets {
		dtos = append(dtos, timesheetToDTO(ts))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateTimesheet godoc
// @Summary Open a draft for the period containing the given date
// @Tags Timesheet
// @Accept json
// @Produce json
// @Param request body createTimesheetRequest true "Any date inside the wanted period (YYYY-MM-DD); today when omitted"
// @Success 201 {object} TimesheetDTO
// @Failure 409 {object} rest.ErrorResponse "A timesheet already exists for this period"
// @Router /api/timesheet [post]
func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request createTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date := time.Now()
	if request.Date != "" {
		parsed, err := time.Parse(time.DateOnly, request.Date)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	ts, err := h.service.CreateForDate(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(timesheetToDTO(ts)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetTimesheet godoc
// @Summary Get a timesheet rendered as a grid
// @Tags Timesheet
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Success 200 {object} TimesheetViewDTO
// @Failure 404 {object} rest.ErrorResponse "Timesheet not found"
// @Router /api/timesheet/{timesheetId} [get]
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := h.pathId(r, "timesheetId")
	if err != nil {
		http.Error(w, "Invalid timesheet ID", http.StatusBadRequest)
		return
	}

	ts, entries, err := h.service.GetTimesheet(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(buildView(ts, entries)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AddRow godoc
// @Summary Add a (project, phase) row, creating a zero-hour entry per date
// @Tags Timesheet
// @Accept json
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Param request body addRowRequest true "Project and phase to add"
// @Success 200 {object} TimesheetViewDTO
// @Failure 409 {object} rest.ErrorResponse "Pair already present or timesheet read-only"
// @Router /api/timesheet/{timesheetId}/row [post]
func (h *Handler) AddRow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := h.pathId(r, "timesheetId")
	if err != nil {
		http.Error(w, "Invalid timesheet ID", http.StatusBadRequest)
		return
	}
	var request addRowRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.ProjectId == 0 || request.PhaseId == 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "projectId and phaseId are required"})
		return
	}

	entries, err := h.service.AddProjectPhase(r.Context(), id, request.ProjectId, request.PhaseId)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ts, _, err := h.service.GetTimesheet(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(buildView(ts, entries)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateEntry godoc
// @Summary Update the hours of a single cell
// @Tags Timesheet
// @Accept json
// @Produce json
// @Param entryId path int true "Time entry ID"
// @Param request body updateHoursRequest true "Raw hours value as typed by the user"
// @Success 200 {object} CellDTO
// @Failure 409 {object} rest.ErrorResponse "Timesheet read-only"
// @Failure 422 {object} rest.ErrorResponse "Hours not a number in [0, 24]"
// @Router /api/timesheet/entry/{entryId} [put]
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	entryId, err := h.pathId(r, "entryId")
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}
	var request updateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.UpdateEntryHours(r.Context(), entryId, request.Hours)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CellDTO{EntryId: entry.Id, Hours: entry.Hours}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SaveDraft godoc
// @Summary Persist the draft's current totals without changing status
// @Tags Timesheet
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Success 200 {object} TimesheetDTO
// @Failure 409 {object} rest.ErrorResponse "Timesheet read-only"
// @Router /api/timesheet/{timesheetId}/draft [post]
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.SaveDraft)
}

// Submit godoc
// @Summary Submit a draft for manager approval
// @Tags Timesheet
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Success 200 {object} TimesheetDTO
// @Failure 409 {object} rest.ErrorResponse "Timesheet already submitted"
// @Router /api/timesheet/{timesheetId}/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Submit)
}

// Approve godoc
// @Summary Approve a submitted timesheet (managers only)
// @Tags Timesheet
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Success 200 {object} TimesheetDTO
// @Failure 403 {object} rest.ErrorResponse "Not a manager"
// @Router /api/timesheet/{timesheetId}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

// Reject godoc
// @Summary Reject a submitted timesheet with a reason (managers only)
// @Tags Timesheet
// @Accept json
// @Produce json
// @Param timesheetId path int true "Timesheet ID"
// @Param request body rejectRequest true "Reason shown to the owner"
// @Success 200 {object} TimesheetDTO
// @Failure 403 {object} rest.ErrorResponse "Not a manager"
// @Router /api/timesheet/{timesheetId}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := h.pathId(r, "timesheetId")
	if err != nil {
		http.Error(w, "Invalid timesheet ID", http.StatusBadRequest)
		return
	}
	var request rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ts, err := h.service.Reject(r.Context(), id, request.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(timesheetToDTO(ts)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int) (Timesheet, error)) {
	w.Header().Set("Content-Type", "application/json")
	id, err := h.pathId(r, "timesheetId")
	if err != nil {
		http.Error(w, "Invalid timesheet ID", http.StatusBadRequest)
		return
	}

	ts, err := op(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(timesheetToDTO(ts)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) pathId(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrTimesheetNotFound), errors.Is(err, ErrEntryNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrReviewForbidden):
		w.WriteHeader(http.StatusForbidden)
	case errors.Is(err, ErrTimesheetReadOnly),
		errors.Is(err, ErrEntryGroupExists),
		errors.Is(err, ErrTimesheetExists),
		errors.Is(err, ErrNotSubmitted):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrInvalidHours):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		log.Errorf("timesheet request failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
}

func timesheetToDTO(ts Timesheet) TimesheetDTO {
	dto := TimesheetDTO{
		Id:              ts.Id,
		PeriodStart:     DateKey(ts.Period.Start),
		PeriodEnd:       DateKey(ts.Period.End),
		Status:          ts.Status,
		TotalHours:      ts.TotalHours,
		RejectionReason: ts.RejectionReason,
	}
	if !ts.SubmittedAt.IsZero() {
		dto.SubmittedAt = ts.SubmittedAt.Format(time.RFC3339)
	}
	if !ts.ApprovedAt.IsZero() {
		dto.ApprovedAt = ts.ApprovedAt.Format(time.RFC3339)
	}
	return dto
}

func buildView(ts Timesheet, entries []TimeEntry) TimesheetViewDTO {
	grid := BuildGrid(entries)
	dates := ts.Period.Dates()

	dateKeys := make([]string, 0, len(dates))
	dayTotals := make(map[string]string, len(dates))
	for _, d := range dates {
		key := DateKey(d)
		dateKeys = append(dateKeys, key)
		dayTotals[key] = FormatDayTotal(DayTotal(entries, key))
	}

	rows := make([]RowDTO, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		cells := make(map[string]CellDTO, len(row.Entries))
		for key, entry := range row.Entries {
			cells[key] = CellDTO{EntryId: entry.Id, Hours: entry.Hours}
		}
		rows = append(rows, RowDTO{
			ProjectId:     row.Project.Id,
			ProjectNumber: row.Project.ProjectNumber,
			ProjectName:   row.Project.Name,
			ClientName:    row.Project.ClientName,
			PhaseId:       row.Phase.Id,
			PhaseCode:     row.Phase.PhaseCode,
			PhaseName:     row.Phase.Name,
			Cells:         cells,
			RowTotal:      row.Total(),
		})
	}

	return TimesheetViewDTO{
		Timesheet:  timesheetToDTO(ts),
		Dates:      dateKeys,
		Rows:       rows,
		DayTotals:  dayTotals,
		GrandTotal: TotalHours(entries),
	}
}
