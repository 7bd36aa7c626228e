package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"everskills/coaching-app/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("already exists")
	ErrMissingID    = RepositoryError("record has no id")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// NewID returns a short readable identifier such as "camp_3f9c2a71b0de".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CampaignRepository stores campaigns. Writes replace the whole record:
// two concurrent load-modify-save cycles on one campaign end with the last
// writer's version.
type CampaignRepository interface {
	// List returns every campaign, migrated to the current schema.
	List(ctx context.Context) ([]domain.Campaign, error)
	// SaveAll replaces the whole collection.
	SaveAll(ctx context.Context, campaigns []domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	GetByRequestID(ctx context.Context, requestID string) (*domain.Campaign, error)
	ListByCoach(ctx context.Context, coachEmail string) ([]domain.Campaign, error)
	ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Campaign, error)
	// Upsert inserts or replaces the campaign with the same id, assigning an
	// id when it has none. UpdatedAt is set to now.
	Upsert(ctx context.Context, campaign *domain.Campaign) error
}

// RequestRepository stores learner requests.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Request, error)
	ListByCoach(ctx context.Context, coachEmail string) ([]domain.Request, error)
	Update(ctx context.Context, req *domain.Request) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}
