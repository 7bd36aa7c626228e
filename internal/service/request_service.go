package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
	"everskills/coaching-app/internal/storage"
)

// MaxRequestWeeks bounds the duration a learner can ask for.
const MaxRequestWeeks = 52

// SubmitRequestInput is what a learner fills in to ask for coaching.
type SubmitRequestInput struct {
	Objective string
	Context   string
	Weeks     int
}

// SupportUpload is a presigned upload slot for a support document.
type SupportUpload struct {
	UploadURL string         `json:"upload_url"`
	Support   domain.Support `json:"support"`
	ExpiresIn int            `json:"expires_in"` // seconds
}

type RequestService interface {
	Submit(ctx context.Context, learner Actor, in SubmitRequestInput) (*domain.Request, error)
	ListMine(ctx context.Context, learner Actor) ([]domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
	AssignCoach(ctx context.Context, admin Actor, requestID, coachEmail string) (*domain.Request, error)
	ListInbox(ctx context.Context, coach Actor) ([]domain.Request, error)
	ListCoaches(ctx context.Context) ([]domain.User, error)
	RequestSupportUploadURL(ctx context.Context, learner Actor, requestID, fileName, contentType string) (*SupportUpload, error)
	SupportDownloadURL(ctx context.Context, actor Actor, requestID, objectKey string) (string, error)
	RemoveSupport(ctx context.Context, learner Actor, requestID, objectKey string) (*domain.Request, error)
}

type requestService struct {
	requestRepo  repository.RequestRepository
	userRepo     repository.UserRepository
	fileStorage  storage.FileStorage // nil when uploads are disabled
	notifier     Notifier
	logger       *slog.Logger
	defaultWeeks int
	now          func() time.Time
}

// NewRequestService wires the request workflow. fileStorage may be nil.
func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	notifier Notifier,
	logger *slog.Logger,
	defaultWeeks int,
) RequestService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultWeeks <= 0 {
		defaultWeeks = 3
	}
	return &requestService{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		fileStorage:  fileStorage,
		notifier:     notifier,
		logger:       logger,
		defaultWeeks: defaultWeeks,
		now:          time.Now,
	}
}

func (s *requestService) Submit(ctx context.Context, learner Actor, in SubmitRequestInput) (*domain.Request, error) {
	objective := strings.TrimSpace(in.Objective)
	if objective == "" {
		return nil, fmt.Errorf("%w: objective is required", ErrInvalidInput)
	}
	weeks := in.Weeks
	if weeks == 0 {
		weeks = s.defaultWeeks
	}
	if weeks < 1 || weeks > MaxRequestWeeks {
		return nil, fmt.Errorf("%w: weeks must be between 1 and %d", ErrInvalidInput, MaxRequestWeeks)
	}

	req := &domain.Request{
		LearnerEmail: domain.NormalizeEmail(learner.Email),
		Objective:    objective,
		Context:      strings.TrimSpace(in.Context),
		Weeks:        weeks,
		Status:       domain.RequestSubmitted,
	}
	id, err := s.requestRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.ID = id
	s.logger.InfoContext(ctx, "request submitted", "request_id", id, "learner", req.LearnerEmail, "weeks", weeks)

	admins, err := s.userRepo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		s.logger.WarnContext(ctx, "listing admins failed", "error", err)
	}
	for _, a := range admins {
		notify(ctx, s.notifier, s.logger, Notification{
			Key:     "REQUEST_SUBMITTED:" + id + ":" + a.Email,
			Type:    NotifyRequestSubmitted,
			To:      a.Email,
			Subject: mailSubject("Nouvelle demande", objective, id),
			Body:    fmt.Sprintf("%s a soumis une demande de %d semaines.\n\n%s", req.LearnerEmail, weeks, objective),
			Meta:    map[string]any{"request_id": id},
		})
	}
	return req, nil
}

func (s *requestService) ListMine(ctx context.Context, learner Actor) ([]domain.Request, error) {
	return s.requestRepo.ListByLearner(ctx, domain.NormalizeEmail(learner.Email))
}

func (s *requestService) ListAll(ctx context.Context) ([]domain.Request, error) {
	return s.requestRepo.List(ctx)
}

func (s *requestService) ListInbox(ctx context.Context, coach Actor) ([]domain.Request, error) {
	return s.requestRepo.ListByCoach(ctx, domain.NormalizeEmail(coach.Email))
}

func (s *requestService) ListCoaches(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleCoach)
}

func (s *requestService) AssignCoach(ctx context.Context, admin Actor, requestID, coachEmail string) (*domain.Request, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.RequestInProgress || req.Status == domain.RequestArchived {
		return nil, fmt.Errorf("%w: request is already %s", ErrInvalidTransition, req.Status)
	}

	coach, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(coachEmail))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrCoachNotFound
	}

	req.CoachEmail = coach.Email
	req.Status = domain.RequestAssigned
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("assigning coach: %w", err)
	}
	s.logger.InfoContext(ctx, "coach assigned", "request_id", req.ID, "coach", coach.Email, "by", admin.Email)

	notify(ctx, s.notifier, s.logger, Notification{
		Key:     "REQUEST_ASSIGNED:" + req.ID + ":" + coach.Email,
		Type:    NotifyRequestAssigned,
		To:      coach.Email,
		Subject: mailSubject("Nouvelle demande à accompagner", req.Objective, req.ID),
		Body:    fmt.Sprintf("Une demande de %s t'a été confiée.", req.LearnerEmail),
		Meta:    map[string]any{"request_id": req.ID},
	})
	return req, nil
}

func (s *requestService) RequestSupportUploadURL(ctx context.Context, learner Actor, requestID, fileName, contentType string) (*SupportUpload, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.LearnerEmail != domain.NormalizeEmail(learner.Email) {
		return nil, ErrForbidden
	}

	key := storage.SupportObjectKey(req.ID, fileName)
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	support := domain.Support{Name: path.Base(strings.ReplaceAll(fileName, "\\", "/")), Path: key}
	req.Supports = append(req.Supports, support)
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("recording support: %w", err)
	}
	return &SupportUpload{
		UploadURL: url,
		Support:   support,
		ExpiresIn: int(storage.DefaultPresignedURLExpiry / time.Second),
	}, nil
}

// SupportDownloadURL presigns a GET for a support document. The owner, the
// assigned coach and admins can read it.
func (s *requestService) SupportDownloadURL(ctx context.Context, actor Actor, requestID, objectKey string) (string, error) {
	if s.fileStorage == nil {
		return "", ErrStorageDisabled
	}
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	email := domain.NormalizeEmail(actor.Email)
	if !actor.isAdmin() && email != req.LearnerEmail && email != req.CoachEmail {
		return "", ErrForbidden
	}
	if !storage.IsSupportKeyOf(objectKey, req.ID) || !hasSupport(req.Supports, objectKey) {
		return "", ErrSupportNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}

// RemoveSupport deletes one of the learner's support documents from storage
// and from the request. Supports of an archived request are frozen.
func (s *requestService) RemoveSupport(ctx context.Context, learner Actor, requestID, objectKey string) (*domain.Request, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.LearnerEmail != domain.NormalizeEmail(learner.Email) {
		return nil, ErrForbidden
	}
	if !storage.IsSupportKeyOf(objectKey, req.ID) || !hasSupport(req.Supports, objectKey) {
		return nil, ErrSupportNotFound
	}
	if req.Status == domain.RequestArchived {
		return nil, fmt.Errorf("%w: request is archived", ErrInvalidTransition)
	}

	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		return nil, fmt.Errorf("deleting support %s: %w", objectKey, err)
	}
	kept := req.Supports[:0]
	for _, sup := range req.Supports {
		if sup.Path != objectKey {
			kept = append(kept, sup)
		}
	}
	req.Supports = kept
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("updating request %s: %w", req.ID, err)
	}
	s.logger.InfoContext(ctx, "support removed", "request_id", req.ID, "key", objectKey)
	return req, nil
}

func (s *requestService) getRequest(ctx context.Context, id string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func hasSupport(supports []domain.Support, key string) bool {
	for _, sup := range supports {
		if sup.Path == key {
			return true
		}
	}
	return false
}
