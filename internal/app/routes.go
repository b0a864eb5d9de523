package app

import (
	"github.com/gorilla/mux"

	"github.com/archsheet/archsheet/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Timesheets
	r.HandleFunc("/api/timesheet", deps.TimesheetHandler.ListTimesheets).Methods("GET")
	r.HandleFunc("/api/timesheet", deps.TimesheetHandler.CreateTimesheet).Methods("POST")
	r.HandleFunc("/api/timesheet/entry/{entryId}", deps.TimesheetHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/timesheet/{timesheetId}", deps.TimesheetHandler.GetTimesheet).Methods("GET")
	r.HandleFunc("/api/timesheet/{timesheetId}/row", deps.TimesheetHandler.AddRow).Methods("POST")
	r.HandleFunc("/api/timesheet/{timesheetId}/draft", deps.TimesheetHandler.SaveDraft).Methods("POST")
	r.HandleFunc("/api/timesheet/{timesheetId}/submit", deps.TimesheetHandler.Submit).Methods("POST")
	r.HandleFunc("/api/timesheet/{timesheetId}/approve", deps.TimesheetHandler.Approve).Methods("POST")
	r.HandleFunc("/api/timesheet/{timesheetId}/reject", deps.TimesheetHandler.Reject).Methods("POST")

	// Reference data
	r.HandleFunc("/api/project", deps.ProjectHandler.ListProjects).Methods("GET")
	r.HandleFunc("/api/phase", deps.PhaseHandler.ListPhases).Methods("GET")
	r.HandleFunc("/api/overhead-category", deps.OverheadHandler.ListCategories).Methods("GET")

	// Reports
	r.HandleFunc("/api/report/budget", deps.ReportHandler.GetBudgetReport).
		Queries("fromDate", "{fromDate}", "toDate", "{toDate}").Methods("GET")

	// Notifications
	r.HandleFunc("/api/notifications", deps.NotificationHandler.ListNotifications).Methods("GET")
	r.HandleFunc("/api/notifications/{notificationId}/read", deps.NotificationHandler.MarkRead).Methods("POST")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")

	// Google sign-in
	r.HandleFunc("/api/auth/google/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/auth/google/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
}
