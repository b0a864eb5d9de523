package timesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsheet/archsheet/internal/event_bus"
	"github.com/archsheet/archsheet/internal/utils"
	"github.com/archsheet/archsheet/pkg/user"
)

func setupHandlerTest(t *testing.T) (*Handler, *ServiceImpl) {
	t.Helper()
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: date("2024-01-16")}
	service := NewService(repo, clock, event_bus.NewEventBus())
	return NewHandler(service), service
}

func doRequest(handler http.HandlerFunc, method, target string, body any, vars map[string]string, u user.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	if u.Id != 0 {
		req = req.WithContext(user.WithUser(req.Context(), u))
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestGetTimesheetView(t *testing.T) {
	// given
	handler, service := setupHandlerTest(t)
	ctx := user.WithUser(context.Background(), owner)
	ts, err := service.CreateForDate(ctx, date("2024-01-03"))
	require.NoError(t, err)

	// when
	w := doRequest(handler.GetTimesheet, http.MethodGet, "/api/timesheet/1", nil,
		map[string]string{"timesheetId": strconv.Itoa(ts.Id)}, owner)

	// then
	assert.Equal(t, http.StatusOK, w.Code)
	var view TimesheetViewDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, ts.Id, view.Timesheet.Id)
	assert.Equal(t, StatusDraft, view.Timesheet.Status)
	require.Len(t, view.Dates, 15)
	assert.Equal(t, "2024-01-01", view.Dates[0])
	assert.Equal(t, "2024-01-15", view.Dates[14])
	assert.Empty(t, view.Rows)
	// days without entries render the no-data marker
	assert.Equal(t, NoDataMarker, view.DayTotals["2024-01-01"])
	assert.Zero(t, view.GrandTotal)
}

func TestUpdateEntryValidation(t *testing.T) {
	handler, service := setupHandlerTest(t)
	ctx := user.WithUser(context.Background(), owner)
	ts, err := service.CreateForDate(ctx, date("2024-01-03"))
	require.NoError(t, err)
	entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
	require.NoError(t, err)
	entryVars := map[string]string{"entryId": strconv.Itoa(entries[0].Id)}

	t.Run("returns 422 for a non-numeric value", func(t *testing.T) {
		w := doRequest(handler.UpdateEntry, http.MethodPut, "/api/timesheet/entry/1",
			updateHoursRequest{Hours: "abc"}, entryVars, owner)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("returns 422 for out-of-range values", func(t *testing.T) {
		for _, raw := range []string{"-1", "24.01"} {
			w := doRequest(handler.UpdateEntry, http.MethodPut, "/api/timesheet/entry/1",
				updateHoursRequest{Hours: raw}, entryVars, owner)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		}
	})

	t.Run("accepts a valid value", func(t *testing.T) {
		w := doRequest(handler.UpdateEntry, http.MethodPut, "/api/timesheet/entry/1",
			updateHoursRequest{Hours: "12.5"}, entryVars, owner)

		assert.Equal(t, http.StatusOK, w.Code)
		var cell CellDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cell))
		assert.Equal(t, 12.5, cell.Hours)
	})
}

func TestAddRowConflicts(t *testing.T) {
	handler, service := setupHandlerTest(t)
	ctx := user.WithUser(context.Background(), owner)
	ts, err := service.CreateForDate(ctx, date("2024-01-03"))
	require.NoError(t, err)
	vars := map[string]string{"timesheetId": strconv.Itoa(ts.Id)}
	_, err = service.AddProjectPhase(ctx, ts.Id, 1, 10)
	require.NoError(t, err)

	t.Run("returns 409 for a duplicate pair", func(t *testing.T) {
		w := doRequest(handler.AddRow, http.MethodPost, "/api/timesheet/1/row",
			addRowRequest{ProjectId: 1, PhaseId: 10}, vars, owner)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("returns 409 after submission", func(t *testing.T) {
		_, err := service.Submit(ctx, ts.Id)
		require.NoError(t, err)

		w := doRequest(handler.AddRow, http.MethodPost, "/api/timesheet/1/row",
			addRowRequest{ProjectId: 2, PhaseId: 10}, vars, owner)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandlerAuthorization(t *testing.T) {
	t.Run("returns 401 without a signed-in user", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		w := doRequest(handler.ListTimesheets, http.MethodGet, "/api/timesheet", nil, nil, user.User{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns 404 for a foreign timesheet", func(t *testing.T) {
		handler, service := setupHandlerTest(t)
		ts, err := service.CreateForDate(user.WithUser(context.Background(), owner), date("2024-01-03"))
		require.NoError(t, err)

		w := doRequest(handler.GetTimesheet, http.MethodGet, "/api/timesheet/1", nil,
			map[string]string{"timesheetId": strconv.Itoa(ts.Id)}, coworker)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 403 when an employee tries to approve", func(t *testing.T) {
		handler, service := setupHandlerTest(t)
		ctx := user.WithUser(context.Background(), owner)
		ts, err := service.CreateForDate(ctx, date("2024-01-03"))
		require.NoError(t, err)
		_, err = service.Submit(ctx, ts.Id)
		require.NoError(t, err)

		w := doRequest(handler.Approve, http.MethodPost, "/api/timesheet/1/approve", nil,
			map[string]string{"timesheetId": strconv.Itoa(ts.Id)}, coworker)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
