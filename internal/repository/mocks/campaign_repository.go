package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"everskills/coaching-app/internal/domain"
)

// CampaignRepository is a testify mock of repository.CampaignRepository.
type CampaignRepository struct {
	mock.Mock
}

func (m *CampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	ret := m.Called(ctx)
	var r0 []domain.Campaign
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Campaign)
	}
	return r0, ret.Error(1)
}

func (m *CampaignRepository) SaveAll(ctx context.Context, campaigns []domain.Campaign) error {
	return m.Called(ctx, campaigns).Error(0)
}

func (m *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	ret := m.Called(ctx, id)
	var r0 *domain.Campaign
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Campaign)
	}
	return r0, ret.Error(1)
}

func (m *CampaignRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Campaign, error) {
	ret := m.Called(ctx, requestID)
	var r0 *domain.Campaign
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Campaign)
	}
	return r0, ret.Error(1)
}

func (m *CampaignRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Campaign, error) {
	ret := m.Called(ctx, coachEmail)
	var r0 []domain.Campaign
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Campaign)
	}
	return r0, ret.Error(1)
}

func (m *CampaignRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Campaign, error) {
	ret := m.Called(ctx, learnerEmail)
	var r0 []domain.Campaign
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Campaign)
	}
	return r0, ret.Error(1)
}

func (m *CampaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) error {
	return m.Called(ctx, campaign).Error(0)
}
