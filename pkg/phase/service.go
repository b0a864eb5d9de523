package phase

import "context"

type Service interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Phase, error)
	Get(ctx context.Context, id int) (Phase, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]Phase, error) {
	return s.repo.GetAll(ctx, includeInactive)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Phase, error) {
	return s.repo.Get(ctx, id)
}
