package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"everskills/coaching-app/internal/domain"
)

// UserRepository is a testify mock of repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	ret := m.Called(ctx, user)
	return ret.String(0), ret.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := m.Called(ctx, email)
	var r0 *domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.User)
	}
	return r0, ret.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ret := m.Called(ctx, id)
	var r0 *domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.User)
	}
	return r0, ret.Error(1)
}

func (m *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	ret := m.Called(ctx, role)
	var r0 []domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.User)
	}
	return r0, ret.Error(1)
}
