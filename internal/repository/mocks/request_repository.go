package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"everskills/coaching-app/internal/domain"
)

// RequestRepository is a testify mock of repository.RequestRepository.
type RequestRepository struct {
	mock.Mock
}

func (m *RequestRepository) Create(ctx context.Context, req *domain.Request) (string, error) {
	ret := m.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

func (m *RequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	ret := m.Called(ctx, id)
	var r0 *domain.Request
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Request)
	}
	return r0, ret.Error(1)
}

func (m *RequestRepository) list(ret mock.Arguments) ([]domain.Request, error) {
	var r0 []domain.Request
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Request)
	}
	return r0, ret.Error(1)
}

func (m *RequestRepository) List(ctx context.Context) ([]domain.Request, error) {
	return m.list(m.Called(ctx))
}

func (m *RequestRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Request, error) {
	return m.list(m.Called(ctx, learnerEmail))
}

func (m *RequestRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Request, error) {
	return m.list(m.Called(ctx, coachEmail))
}

func (m *RequestRepository) Update(ctx context.Context, req *domain.Request) error {
	return m.Called(ctx, req).Error(0)
}
