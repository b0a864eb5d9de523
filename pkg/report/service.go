package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
	"github.com/archsheet/archsheet/pkg/user"
)

var ErrReportForbidden = errors.New("only managers can view reports")

type Service interface {
	// BudgetReport compares approved hours per project and phase in the
	// given window against each project's hour budget. Managers only.
	BudgetReport(ctx context.Context, from, to time.Time) (ReportSummary, error)
}

type ServiceImpl struct {
	repo        Repository
	projectRepo project.Repository
	phaseRepo   phase.Repository
}

func NewService(repo Repository, projectRepo project.Repository, phaseRepo phase.Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo, projectRepo: projectRepo, phaseRepo: phaseRepo}
}

func (s *ServiceImpl) BudgetReport(ctx context.Context, from, to time.Time) (ReportSummary, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return ReportSummary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !current.IsManager() {
		return ReportSummary{}, ErrReportForbidden
	}

	buckets, err := s.repo.ApprovedHoursByPhase(ctx, from, to)
	if err != nil {
		return ReportSummary{}, err
	}
	allTimeTotals, err := s.repo.ApprovedHoursByProject(ctx)
	if err != nil {
		return ReportSummary{}, err
	}

	projects, err := s.projectRepo.GetAll(ctx, true)
	if err != nil {
		return ReportSummary{}, err
	}
	phases, err := s.phaseRepo.GetAll(ctx, true)
	if err != nil {
		return ReportSummary{}, err
	}
	projectsById := make(map[int]project.Project, len(projects))
	for _, p := range projects {
		projectsById[p.Id] = p
	}
	phasesById := make(map[int]phase.Phase, len(phases))
	for _, ph := range phases {
		phasesById[ph.Id] = ph
	}

	summary := ReportSummary{StartDate: from, EndDate: to}
	reportIndex := make(map[int]int)
	for _, bucket := range buckets {
		p, ok := projectsById[bucket.ProjectId]
		if !ok {
			continue
		}
		ph, ok := phasesById[bucket.PhaseId]
		if !ok {
			continue
		}

		i, ok := reportIndex[bucket.ProjectId]
		if !ok {
			summary.Projects = append(summary.Projects, ProjectReport{
				Project:        p,
				RemainingHours: p.BudgetHours - allTimeTotals[p.Id],
			})
			i = len(summary.Projects) - 1
			reportIndex[bucket.ProjectId] = i
		}
		summary.Projects[i].Phases = append(summary.Projects[i].Phases, PhaseActuals{
			Phase: ph,
			Hours: bucket.Hours,
		})
		summary.Projects[i].ActualHours += bucket.Hours
		summary.TotalHours += bucket.Hours
	}

	return summary, nil
}
