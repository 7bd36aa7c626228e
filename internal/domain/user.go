package domain

import (
	"strings"
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleLearner Role = "learner"
	RoleCoach   Role = "coach"
	RoleAdmin   Role = "admin"
)

// User represents a person using the app (learner, coach or admin).
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	FirstName    string    `bson:"first_name,omitempty" json:"first_name,omitempty"`
	Email        string    `bson:"email" json:"email"`    // Unique, stored lower-case
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsLearner() bool {
	return u.Role == RoleLearner
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayFirstName returns FirstName, or the first word of Name.
func (u *User) DisplayFirstName() string {
	if f := strings.TrimSpace(u.FirstName); f != "" {
		return f
	}
	if parts := strings.Fields(u.Name); len(parts) > 0 {
		return parts[0]
	}
	return ""
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
