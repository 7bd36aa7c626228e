package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

const tokenIssuer = "everskills"

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name      string
	FirstName string
	Email     string
	Password  string
	Role      domain.Role
}

type AuthService interface {
	// Register creates a learner or coach account.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// CreateUser creates an account of any role, admins included. It is
	// meant for operator tooling, not for the public API.
	CreateUser(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleLearner
	}
	if in.Role != domain.RoleLearner && in.Role != domain.RoleCoach {
		return nil, ErrRoleNotAllowed
	}
	return s.CreateUser(ctx, in)
}

func (s *authService) CreateUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: name, email, password and role are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	switch in.Role {
	case domain.RoleLearner, domain.RoleCoach, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		FirstName:    strings.TrimSpace(in.FirstName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// unique index lost a race with another registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		err = fmt.Errorf("%w: email and password cannot be empty", ErrInvalidInput)
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
		}
		user = nil
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// jwtClaims mirrors the claims read by api.AuthMiddleware.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
