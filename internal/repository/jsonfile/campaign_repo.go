package jsonfile

import (
	"context"
	"strings"
	"time"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

type campaignRepository struct {
	store *Store
	now   func() time.Time
}

// NewCampaignRepository returns a CampaignRepository backed by campaigns.json.
func NewCampaignRepository(store *Store) repository.CampaignRepository {
	return &campaignRepository{store: store, now: time.Now}
}

func (r *campaignRepository) load() ([]domain.Campaign, error) {
	items, err := r.store.readList(campaignsFile)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Campaign](r.store, campaignsFile, items), nil
}

func (r *campaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.load()
}

func (r *campaignRepository) SaveAll(ctx context.Context, campaigns []domain.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	return r.store.writeJSON(campaignsFile, campaigns)
}

func (r *campaignRepository) find(match func(domain.Campaign) bool) (*domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if match(all[i]) {
			return &all[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *campaignRepository) filter(match func(domain.Campaign) bool) ([]domain.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	out := []domain.Campaign{}
	for _, c := range all {
		if match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	id = strings.TrimSpace(id)
	return r.find(func(c domain.Campaign) bool { return id != "" && c.ID == id })
}

func (r *campaignRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Campaign, error) {
	requestID = strings.TrimSpace(requestID)
	return r.find(func(c domain.Campaign) bool { return requestID != "" && c.RequestID == requestID })
}

func (r *campaignRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Campaign, error) {
	email := domain.NormalizeEmail(coachEmail)
	return r.filter(func(c domain.Campaign) bool { return domain.NormalizeEmail(c.CoachEmail) == email })
}

func (r *campaignRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Campaign, error) {
	email := domain.NormalizeEmail(learnerEmail)
	return r.filter(func(c domain.Campaign) bool { return domain.NormalizeEmail(c.LearnerEmail) == email })
}

func (r *campaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}

	now := r.now().UTC()
	campaign.ID = strings.TrimSpace(campaign.ID)
	if campaign.ID == "" {
		campaign.ID = repository.NewID("camp")
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now

	replaced := false
	for i := range all {
		if all[i].ID == campaign.ID {
			all[i] = campaign.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, campaign.Clone())
	}
	return r.store.writeJSON(campaignsFile, all)
}
