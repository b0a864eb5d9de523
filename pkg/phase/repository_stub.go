package phase

import (
	"context"
	"sort"
)

type StubRepository struct {
	nextId int
	data   map[int]Phase
}

func NewStubRepository() *StubRepository {
	return &StubRepository{nextId: 0, data: map[int]Phase{}}
}

func (s *StubRepository) Add(phase Phase) Phase {
	s.nextId++
	phase.Id = s.nextId
	s.data[phase.Id] = phase
	return phase
}

func (s *StubRepository) GetAll(ctx context.Context, includeInactive bool) ([]Phase, error) {
	phases := make([]Phase, 0, len(s.data))
	for _, p := range s.data {
		if p.IsActive || includeInactive {
			phases = append(phases, p)
		}
	}
	sort.Slice(phases, func(i, j int) bool {
		return phases[i].DisplayOrder < phases[j].DisplayOrder
	})
	return phases, nil
}

func (s *StubRepository) Get(ctx context.Context, id int) (Phase, error) {
	p, ok := s.data[id]
	if !ok {
		return Phase{}, ErrPhaseNotFound
	}
	return p, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Phase{}
	s.nextId = 0
}
