package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/program"
	"everskills/coaching-app/internal/repository"
)

// ActionEdit is one action as submitted by a coach. An ID matching an
// existing action keeps that action; an empty Status keeps its status.
type ActionEdit struct {
	ID     string              `json:"id"`
	Text   string              `json:"text"`
	Status domain.ActionStatus `json:"status"`
}

// WeekEdit changes a week. Nil fields are left untouched.
type WeekEdit struct {
	Objective    *string       `json:"objective_week"`
	Actions      *[]ActionEdit `json:"actions"`
	CoachComment *string       `json:"coach_comment"`
}

// MessagesEdit changes the kickoff and closure messages. Nil fields are left
// untouched.
type MessagesEdit struct {
	Kickoff *string `json:"kickoff_message"`
	Closure *string `json:"closure_message"`
}

type CoachService interface {
	CreateCampaignFromRequest(ctx context.Context, coach Actor, requestID string) (*CampaignView, error)
	ListCampaigns(ctx context.Context, coach Actor) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, coach Actor, id string) (*CampaignView, error)
	// SaveProgram stores the program text and fills empty weeks from it.
	// The flag reports whether the weekly plan changed.
	SaveProgram(ctx context.Context, coach Actor, id, text string) (*CampaignView, bool, error)
	EditWeek(ctx context.Context, coach Actor, id string, week int, in WeekEdit) (*CampaignView, error)
	UpdateMessages(ctx context.Context, coach Actor, id string, in MessagesEdit) (*CampaignView, error)
	PublishProgram(ctx context.Context, coach Actor, id string) (*CampaignView, error)
	CloseWeek(ctx context.Context, coach Actor, id string, week int) (*CampaignView, error)
	CloseCampaign(ctx context.Context, coach Actor, id string) (*CampaignView, error)
	SetDraft(ctx context.Context, coach Actor, id string) (*CampaignView, error)
}

type coachService struct {
	campaignBase
	requestRepo repository.RequestRepository
}

func NewCoachService(
	campaignRepo repository.CampaignRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	settings PlanSettings,
	notifier Notifier,
	logger *slog.Logger,
) CoachService {
	return &coachService{
		campaignBase: newCampaignBase(campaignRepo, userRepo, settings, notifier, logger),
		requestRepo:  requestRepo,
	}
}

func (s *coachService) CreateCampaignFromRequest(ctx context.Context, coach Actor, requestID string) (*CampaignView, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	coachEmail := domain.NormalizeEmail(coach.Email)
	if !coach.isAdmin() && req.CoachEmail != coachEmail {
		return nil, ErrForbidden
	}
	if req.CoachEmail != "" {
		coachEmail = req.CoachEmail
	}

	if _, err := s.campaignRepo.GetByRequestID(ctx, req.ID); err == nil {
		return nil, ErrCampaignExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	c := domain.Campaign{
		ID:           "camp_" + req.ID,
		RequestID:    req.ID,
		LearnerEmail: req.LearnerEmail,
		CoachEmail:   coachEmail,
		Objective:    req.Objective,
		Context:      req.Context,
		Weeks:        req.Weeks,
		Status:       domain.CampaignDraft,
		Supports:     append([]domain.Support(nil), req.Supports...),
		CreatedAt:    now,
	}
	c = s.engine.Normalizer.Normalize(c)
	c.KickoffMessage = KickoffMessage(s.firstName(ctx, c.LearnerEmail), c.Weeks, s.firstName(ctx, coachEmail))
	c.AppendEvent(coach.Email, EventCampaignCreated, map[string]any{"request_id": req.ID}, now)

	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}

	req.Status = domain.RequestInProgress
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("updating request %s: %w", req.ID, err)
	}
	s.logger.InfoContext(ctx, "campaign created", "campaign_id", c.ID, "request_id", req.ID, "coach", coachEmail)
	return s.view(c), nil
}

func (s *coachService) ListCampaigns(ctx context.Context, coach Actor) ([]domain.Campaign, error) {
	if coach.isAdmin() {
		all, err := s.campaignRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		for i := range all {
			all[i] = s.reconcile(all[i])
		}
		return all, nil
	}
	return s.list(ctx, s.campaignRepo.ListByCoach, coach.Email)
}

func (s *coachService) GetCampaign(ctx context.Context, coach Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *coachService) SaveProgram(ctx context.Context, coach Actor, id, text string) (*CampaignView, bool, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, false, err
	}
	if c.IsClosed() {
		return nil, false, ErrCampaignClosed
	}

	c.ProgramText = text
	c, changed := s.engine.Sync(c)
	c.AppendEvent(coach.Email, EventProgramSaved, map[string]any{"weekly_synced": changed}, s.now())
	if err := s.save(ctx, &c); err != nil {
		return nil, false, err
	}
	s.logger.InfoContext(ctx, "program saved", "campaign_id", c.ID, "weekly_synced", changed)

	if changed && c.Status != domain.CampaignDraft {
		notify(ctx, s.notifier, s.logger, Notification{
			Key:     "PROGRAM_UPDATED:" + c.ID + ":" + c.WeeklyInitProgramHash,
			Type:    NotifyProgramUpdated,
			To:      c.LearnerEmail,
			Subject: mailSubject("Programme mis à jour", c.Objective, c.ID),
			Body:    "Ton coach a mis à jour ton programme.",
			Meta:    map[string]any{"campaign_id": c.ID},
		})
	}
	return s.view(c), changed, nil
}

func (s *coachService) EditWeek(ctx context.Context, coach Actor, id string, week int, in WeekEdit) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	w, err := editableWeek(&c, week)
	if err != nil {
		return nil, err
	}

	if in.Objective != nil {
		w.ObjectiveWeek = strings.TrimSpace(*in.Objective)
	}
	if in.Actions != nil {
		actions, err := s.mergeActions(w.Actions, *in.Actions)
		if err != nil {
			return nil, err
		}
		w.Actions = actions
	}
	commented := false
	if in.CoachComment != nil {
		comment := strings.TrimSpace(*in.CoachComment)
		commented = comment != "" && comment != w.CoachComment
		w.CoachComment = comment
	}
	w.UpdatedAt = s.timestamp()
	c.AppendEvent(coach.Email, EventCoachWeekSaved, map[string]any{"week": week}, s.now())

	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}

	if commented {
		notify(ctx, s.notifier, s.logger, Notification{
			Key:     fmt.Sprintf("COACH_FEEDBACK:%s:%d:%s", c.ID, week, program.ContentHash(w.CoachComment)),
			Type:    NotifyCoachFeedback,
			To:      c.LearnerEmail,
			Subject: mailSubject(fmt.Sprintf("Retour coach, semaine %d", week), c.Objective, c.ID),
			Body:    w.CoachComment,
			Meta:    map[string]any{"campaign_id": c.ID, "week": week},
		})
	}
	return s.view(c), nil
}

// mergeActions applies a coach edit to a week's actions. An edit keeps the id
// and status of the existing action it names by id, or else of the first
// unused existing action with the same text. Edits without text are dropped.
func (s *coachService) mergeActions(current []domain.Action, edits []ActionEdit) ([]domain.Action, error) {
	vocab := s.vocabulary()
	used := make([]bool, len(current))
	claim := func(e ActionEdit) int {
		for i, a := range current {
			if !used[i] && e.ID != "" && a.ID == e.ID {
				return i
			}
		}
		text := strings.TrimSpace(e.Text)
		for i, a := range current {
			if !used[i] && strings.TrimSpace(a.Text) == text {
				return i
			}
		}
		return -1
	}

	var out []domain.Action
	for _, e := range edits {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		if e.Status != "" && !vocab.Has(e.Status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
		}
		a := domain.Action{Text: text, Status: e.Status}
		if i := claim(e); i >= 0 {
			used[i] = true
			a.ID = current[i].ID
			if a.Status == "" {
				a.Status = current[i].Status
			}
		}
		if a.ID == "" {
			a.ID = s.engine.NewID()
		}
		if a.Status == "" {
			a.Status = vocab.Default()
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *coachService) UpdateMessages(ctx context.Context, coach Actor, id string, in MessagesEdit) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	if in.Kickoff != nil {
		c.KickoffMessage = strings.TrimSpace(*in.Kickoff)
		c.AppendEvent(coach.Email, EventKickoffSaved, nil, s.now())
	}
	if in.Closure != nil {
		c.ClosureMessage = strings.TrimSpace(*in.Closure)
		c.AppendEvent(coach.Email, EventClosureSaved, nil, s.now())
	}
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *coachService) PublishProgram(ctx context.Context, coach Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case domain.CampaignClosed:
		return nil, ErrCampaignClosed
	case domain.CampaignActive:
		return nil, fmt.Errorf("%w: campaign already started", ErrInvalidTransition)
	}
	if strings.TrimSpace(c.ProgramText) == "" {
		return nil, ErrProgramEmpty
	}

	now := s.now()
	c.Status = domain.CampaignProgramReady
	if c.KickoffMessage == "" {
		c.KickoffMessage = KickoffMessage(s.firstName(ctx, c.LearnerEmail), c.Weeks, s.firstName(ctx, c.CoachEmail))
		c.AppendEvent(coach.Email, EventKickoffAutofill, nil, now)
	}
	c.AppendEvent(coach.Email, EventProgramPublished, nil, now)
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	s.archiveRequest(ctx, c.RequestID)
	s.logger.InfoContext(ctx, "program published", "campaign_id", c.ID)

	notify(ctx, s.notifier, s.logger, Notification{
		Key:     "PROGRAM_READY:" + c.ID,
		Type:    NotifyProgramReady,
		To:      c.LearnerEmail,
		Subject: mailSubject("Ton programme est prêt", c.Objective, c.ID),
		Body:    c.KickoffMessage,
		Meta:    map[string]any{"campaign_id": c.ID},
	})
	return s.view(c), nil
}

func (s *coachService) archiveRequest(ctx context.Context, requestID string) {
	if requestID == "" {
		return
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		s.logger.WarnContext(ctx, "request not archived", "request_id", requestID, "error", err)
		return
	}
	if req.Status == domain.RequestArchived {
		return
	}
	req.Status = domain.RequestArchived
	if err := s.requestRepo.Update(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "request not archived", "request_id", requestID, "error", err)
	}
}

func (s *coachService) CloseWeek(ctx context.Context, coach Actor, id string, week int) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	if c.IsClosed() {
		return nil, ErrCampaignClosed
	}
	w := c.Week(week)
	if w == nil {
		return nil, ErrWeekNotFound
	}
	if w.Closed {
		return s.view(c), nil
	}
	w.Closed = true
	w.ClosedAt = s.timestamp()
	c.AppendEvent(coach.Email, EventWeekClosed, map[string]any{"week": week}, s.now())
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *coachService) CloseCampaign(ctx context.Context, coach Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	if c.IsClosed() {
		return nil, ErrCampaignClosed
	}

	now := s.now().UTC()
	if c.ClosureMessage == "" {
		c.ClosureMessage = ClosureMessage(s.firstName(ctx, c.LearnerEmail), c.Objective, c.Weeks, s.firstName(ctx, c.CoachEmail))
		c.AppendEvent(coach.Email, EventClosureAutofill, nil, now)
	}
	c.Status = domain.CampaignClosed
	c.ClosedAt = &now
	c.AppendEvent(coach.Email, EventCampaignClosed, nil, now)
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "campaign closed", "campaign_id", c.ID)

	notify(ctx, s.notifier, s.logger, Notification{
		Key:     "CAMPAIGN_CLOSED:" + c.ID,
		Type:    NotifyCampaignClosed,
		To:      c.LearnerEmail,
		Subject: mailSubject("Clôture de ton accompagnement", c.Objective, c.ID),
		Body:    c.ClosureMessage,
		Meta:    map[string]any{"campaign_id": c.ID},
	})
	return s.view(c), nil
}

// SetDraft moves the campaign back to draft, reopening it when closed.
func (s *coachService) SetDraft(ctx context.Context, coach Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, coach, id)
	if err != nil {
		return nil, err
	}
	c.Status = domain.CampaignDraft
	c.ClosedAt = nil
	c.AppendEvent(coach.Email, EventStatusDraft, nil, s.now())
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// owned loads a campaign coached by coach. Admins can act on any campaign.
func (s *coachService) owned(ctx context.Context, coach Actor, id string) (domain.Campaign, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return c, err
	}
	if !coach.isAdmin() && c.CoachEmail != domain.NormalizeEmail(coach.Email) {
		return domain.Campaign{}, ErrForbidden
	}
	return c, nil
}
