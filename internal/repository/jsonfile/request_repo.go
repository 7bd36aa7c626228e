package jsonfile

import (
	"context"
	"strings"
	"time"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

type requestRepository struct {
	store *Store
	now   func() time.Time
}

// NewRequestRepository returns a RequestRepository backed by requests.json.
func NewRequestRepository(store *Store) repository.RequestRepository {
	return &requestRepository{store: store, now: time.Now}
}

func (r *requestRepository) load() ([]domain.Request, error) {
	items, err := r.store.readList(requestsFile)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Request](r.store, requestsFile, items), nil
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return "", err
	}

	now := r.now().UTC()
	req.ID = repository.NewID("req")
	req.LearnerEmail = domain.NormalizeEmail(req.LearnerEmail)
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = domain.RequestSubmitted
	}
	if req.Supports == nil {
		req.Supports = []domain.Support{}
	}

	all = append(all, *req)
	if err := r.store.writeJSON(requestsFile, all); err != nil {
		return "", err
	}
	return req.ID, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range all {
		if id != "" && all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *requestRepository) filter(match func(domain.Request) bool) ([]domain.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	out := []domain.Request{}
	for _, req := range all {
		if match(req) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *requestRepository) List(ctx context.Context) ([]domain.Request, error) {
	return r.filter(func(domain.Request) bool { return true })
}

func (r *requestRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Request, error) {
	email := domain.NormalizeEmail(learnerEmail)
	return r.filter(func(req domain.Request) bool { return domain.NormalizeEmail(req.LearnerEmail) == email })
}

func (r *requestRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Request, error) {
	email := domain.NormalizeEmail(coachEmail)
	return r.filter(func(req domain.Request) bool { return domain.NormalizeEmail(req.CoachEmail) == email })
}

func (r *requestRepository) Update(ctx context.Context, req *domain.Request) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == req.ID {
			req.UpdatedAt = r.now().UTC()
			all[i] = *req
			return r.store.writeJSON(requestsFile, all)
		}
	}
	return repository.ErrNotFound
}
