package service

import (
	"errors"

	"everskills/coaching-app/internal/domain"
)

// --- Error Definitions ---
var (
	ErrForbidden         = errors.New("access denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRequestNotFound   = errors.New("request not found")
	ErrCoachNotFound     = errors.New("coach not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrCampaignExists    = errors.New("a campaign already exists for this request")
	ErrCampaignClosed    = errors.New("campaign is closed")
	ErrCampaignNotActive = errors.New("campaign is not active")
	ErrInvalidTransition = errors.New("campaign status does not allow this operation")
	ErrProgramEmpty      = errors.New("program text is empty")
	ErrWeekNotFound      = errors.New("week not found")
	ErrWeekClosed        = errors.New("week is closed")
	ErrActionNotFound    = errors.New("action not found")
	ErrInvalidStatus     = errors.New("unknown action status")
	ErrStorageDisabled   = errors.New("file storage is not configured")
	ErrSupportNotFound   = errors.New("support document not found")
	ErrEmptyPostIt       = errors.New("post-it needs at least one note")
	ErrRoleNotAllowed    = errors.New("role cannot be chosen at registration")
)

// Actor is the authenticated user on whose behalf a service call runs.
type Actor struct {
	UserID string
	Email  string
	Role   domain.Role
}

func (a Actor) isAdmin() bool {
	return a.Role == domain.RoleAdmin
}
