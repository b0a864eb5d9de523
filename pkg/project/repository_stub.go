package project

import "context"

type StubRepository struct {
	nextId int
	data   map[int]Project
}

func NewStubRepository() *StubRepository {
	return &StubRepository{nextId: 0, data: map[int]Project{}}
}

func (s *StubRepository) Add(project Project) Project {
	s.nextId++
	project.Id = s.nextId
	s.data[project.Id] = project
	return project
}

func (s *StubRepository) GetAll(ctx context.Context, includeInactive bool) ([]Project, error) {
	projects := make([]Project, 0, len(s.data))
	for _, p := range s.data {
		if p.IsActive || includeInactive {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (s *StubRepository) Get(ctx context.Context, id int) (Project, error) {
	p, ok := s.data[id]
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	return p, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Project{}
	s.nextId = 0
}
