package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archsheet/archsheet/internal/config"
	"github.com/archsheet/archsheet/internal/event_bus"
	"github.com/archsheet/archsheet/internal/utils"
	"github.com/archsheet/archsheet/pkg/google"
	"github.com/archsheet/archsheet/pkg/notification"
	"github.com/archsheet/archsheet/pkg/overhead"
	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
	"github.com/archsheet/archsheet/pkg/report"
	"github.com/archsheet/archsheet/pkg/timesheet"
	"github.com/archsheet/archsheet/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserRepo    user.Repo
	UserService user.Service
	UserHandler *user.Handler

	GoogleAuth *google.GoogleAuth

	ProjectRepo    project.Repository
	ProjectService project.Service
	ProjectHandler *project.Handler

	PhaseRepo    phase.Repository
	PhaseService phase.Service
	PhaseHandler *phase.Handler

	OverheadRepo    overhead.Repository
	OverheadHandler *overhead.Handler

	TimesheetRepo    timesheet.Repository
	TimesheetService timesheet.Service
	TimesheetHandler *timesheet.Handler

	ReportRepo        report.Repository
	ReportService     report.Service
	CsvReportRenderer *report.CsvRendererImpl
	ReportHandler     *report.Handler

	NotificationRepo    notification.Repository
	NotificationService *notification.ServiceImpl
	NotificationHandler *notification.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserRepo = user.NewUserRepo(db)
	deps.UserService = user.NewUserService(deps.UserRepo)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)

	deps.ProjectRepo = project.NewRepository(db)
	deps.ProjectService = project.NewService(deps.ProjectRepo)
	deps.ProjectHandler = project.NewHandler(deps.ProjectService)

	deps.PhaseRepo = phase.NewRepository(db)
	deps.PhaseService = phase.NewService(deps.PhaseRepo)
	deps.PhaseHandler = phase.NewHandler(deps.PhaseService)

	deps.OverheadRepo = overhead.NewRepository(db)
	deps.OverheadHandler = overhead.NewHandler(deps.OverheadRepo)

	deps.TimesheetRepo = timesheet.NewRepository(db)
	deps.TimesheetService = timesheet.NewService(deps.TimesheetRepo, deps.Clock, deps.EventBus)
	deps.TimesheetHandler = timesheet.NewHandler(deps.TimesheetService)

	deps.ReportRepo = report.NewRepository(db)
	deps.ReportService = report.NewService(deps.ReportRepo, deps.ProjectRepo, deps.PhaseRepo)
	deps.CsvReportRenderer = report.NewCsvRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvReportRenderer)

	deps.NotificationRepo = notification.NewRepository(db)
	deps.NotificationService = notification.NewService(deps.NotificationRepo, deps.UserRepo, deps.Clock)
	deps.NotificationService.Register(deps.EventBus)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)

	return deps
}
