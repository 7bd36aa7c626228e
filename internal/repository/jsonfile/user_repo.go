package jsonfile

import (
	"context"
	"errors"
	"strings"
	"time"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

type userRepository struct {
	store *Store
	now   func() time.Time
}

// NewUserRepository returns a UserRepository backed by users.json.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store, now: time.Now}
}

// userRecord is the users.json form of a user. Unlike domain.User it
// carries the password hash.
type userRecord struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	FirstName    string      `json:"first_name,omitempty"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func toUserRecord(u domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		FirstName:    u.FirstName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (rec userRecord) user() domain.User {
	return domain.User{
		ID:           rec.ID,
		Name:         rec.Name,
		FirstName:    rec.FirstName,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         rec.Role,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func (r *userRepository) load() ([]domain.User, error) {
	items, err := r.store.readList(usersFile)
	if err != nil {
		return nil, err
	}
	records := decodeList[userRecord](r.store, usersFile, items)
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.user())
	}
	return users, nil
}

func (r *userRepository) save(users []domain.User) error {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, toUserRecord(u))
	}
	return r.store.writeJSON(usersFile, records)
}

// Create inserts a new user. Emails are unique, compared case-insensitively.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return "", errors.New("user email, password hash, and role are required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return "", err
	}
	user.Email = domain.NormalizeEmail(user.Email)
	for _, u := range all {
		if domain.NormalizeEmail(u.Email) == user.Email {
			return "", repository.ErrDuplicate
		}
	}

	now := r.now().UTC()
	user.ID = repository.NewID("usr")
	user.CreatedAt = now
	user.UpdatedAt = now

	all = append(all, *user)
	if err := r.save(all); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (r *userRepository) find(match func(domain.User) bool) (*domain.User, error) {
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

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u domain.User) bool { return email != "" && domain.NormalizeEmail(u.Email) == email })
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	return r.find(func(u domain.User) bool { return id != "" && u.ID == id })
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return nil, err
	}
	out := []domain.User{}
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}
