package report

import (
	"context"
	"time"
)

type stubRepository struct {
	phaseHours    []PhaseHours
	projectTotals map[int]float64
}

func (s *stubRepository) ApprovedHoursByPhase(_ context.Context, _, _ time.Time) ([]PhaseHours, error) {
	return s.phaseHours, nil
}

func (s *stubRepository) ApprovedHoursByProject(_ context.Context) (map[int]float64, error) {
	return s.projectTotals, nil
}
