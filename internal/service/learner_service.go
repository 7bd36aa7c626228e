package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/plan"
	"everskills/coaching-app/internal/repository"
)

// Moods a learner can pick on a post-it, from 1 (best) to 5.
var Moods = []string{"🟢 En confiance", "🔵 Flow", "🟡 Neutre", "🟠 Tendu", "🔴 Fatigué"}

// StatusUpdate sets the status of one action, named by ID or else by its
// zero-based position in the week.
type StatusUpdate struct {
	ActionID string              `json:"action_id"`
	Index    *int                `json:"index"`
	Status   domain.ActionStatus `json:"status"`
}

// LearnerWeekUpdate is a learner's weekly check-in.
type LearnerWeekUpdate struct {
	Statuses []StatusUpdate `json:"statuses"`
	Comment  *string        `json:"learner_comment"`
}

// PostItInput is a journal note. At least one of Success, Difficulty and
// Learning must carry text.
type PostItInput struct {
	Week           int      `json:"week"` // 0 means the current week
	Mood           int      `json:"mood"` // 1..len(Moods), 0 for none
	Success        string   `json:"success"`
	Difficulty     string   `json:"difficulty"`
	Learning       string   `json:"learning"`
	Tags           []string `json:"tags"`
	ActionID       string   `json:"action_id"`
	AddToComment   bool     `json:"add_to_comment"`
	ShareWithCoach bool     `json:"share_with_coach"`
}

type LearnerService interface {
	ListCampaigns(ctx context.Context, learner Actor) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, learner Actor, id string) (*CampaignView, error)
	Activate(ctx context.Context, learner Actor, id string) (*CampaignView, error)
	UpdateWeek(ctx context.Context, learner Actor, id string, week int, in LearnerWeekUpdate) (*CampaignView, error)
	AddPostIt(ctx context.Context, learner Actor, id string, in PostItInput) (*CampaignView, error)
	CurrentWeek(ctx context.Context, learner Actor, id string) (int, error)
}

type learnerService struct {
	campaignBase
}

func NewLearnerService(
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	settings PlanSettings,
	notifier Notifier,
	logger *slog.Logger,
) LearnerService {
	return &learnerService{campaignBase: newCampaignBase(campaignRepo, userRepo, settings, notifier, logger)}
}

func (s *learnerService) ListCampaigns(ctx context.Context, learner Actor) ([]domain.Campaign, error) {
	return s.list(ctx, s.campaignRepo.ListByLearner, learner.Email)
}

func (s *learnerService) GetCampaign(ctx context.Context, learner Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, learner, id)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *learnerService) CurrentWeek(ctx context.Context, learner Actor, id string) (int, error) {
	c, err := s.owned(ctx, learner, id)
	if err != nil {
		return 0, err
	}
	return plan.CurrentWeek(c, s.now()), nil
}

// Activate starts a published program.
func (s *learnerService) Activate(ctx context.Context, learner Actor, id string) (*CampaignView, error) {
	c, err := s.owned(ctx, learner, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CampaignProgramReady {
		return nil, fmt.Errorf("%w: campaign is %s", ErrInvalidTransition, c.Status)
	}

	now := s.now().UTC()
	c.Status = domain.CampaignActive
	c.ActivatedAt = &now
	c.AppendEvent(learner.Email, EventProgramActivated, nil, now)
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "program activated", "campaign_id", c.ID)

	notify(ctx, s.notifier, s.logger, Notification{
		Key:     "PROGRAM_VALIDATED:" + c.ID,
		Type:    NotifyProgramValidated,
		To:      c.CoachEmail,
		Subject: mailSubject("Programme validé", c.Objective, c.ID),
		Body:    fmt.Sprintf("%s a validé le programme et démarre l'accompagnement.", c.LearnerEmail),
		Meta:    map[string]any{"campaign_id": c.ID},
	})
	body := c.KickoffMessage
	if body == "" {
		body = "Ton programme démarre officiellement."
	}
	notify(ctx, s.notifier, s.logger, Notification{
		Key:     "PROGRAM_STARTED:" + c.ID,
		Type:    NotifyProgramStarted,
		To:      c.LearnerEmail,
		Subject: mailSubject("C'est parti", c.Objective, c.ID),
		Body:    body,
		Meta:    map[string]any{"campaign_id": c.ID},
	})
	return s.view(c), nil
}

func (s *learnerService) UpdateWeek(ctx context.Context, learner Actor, id string, week int, in LearnerWeekUpdate) (*CampaignView, error) {
	c, err := s.owned(ctx, learner, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(c); err != nil {
		return nil, err
	}
	w, err := editableWeek(&c, week)
	if err != nil {
		return nil, err
	}

	vocab := s.vocabulary()
	for _, u := range in.Statuses {
		if !vocab.Has(u.Status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, u.Status)
		}
		i := w.ActionByID(u.ActionID)
		if i < 0 && u.ActionID == "" && u.Index != nil && *u.Index >= 0 && *u.Index < len(w.Actions) {
			i = *u.Index
		}
		if i < 0 {
			return nil, ErrActionNotFound
		}
		w.Actions[i].Status = u.Status
	}
	if in.Comment != nil {
		w.LearnerComment = strings.TrimSpace(*in.Comment)
	}
	stamp := s.timestamp()
	w.UpdatedAt = stamp
	c.AppendEvent(learner.Email, EventLearnerWeekSaved, map[string]any{"week": week}, s.now())
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}

	progress := s.calc.WeekProgress(*w)
	notify(ctx, s.notifier, s.logger, Notification{
		Key:     fmt.Sprintf("LEARNER_UPDATE:%s:%d:%s", c.ID, week, stamp),
		Type:    NotifyLearnerUpdate,
		To:      c.CoachEmail,
		Subject: mailSubject(fmt.Sprintf("Mise à jour semaine %d", week), c.Objective, c.ID),
		Body:    fmt.Sprintf("%s a mis à jour la semaine %d (%d/%d actions).", c.LearnerEmail, week, progress.Done, progress.Total),
		Meta:    map[string]any{"campaign_id": c.ID, "week": week},
	})
	return s.view(c), nil
}

func (s *learnerService) AddPostIt(ctx context.Context, learner Actor, id string, in PostItInput) (*CampaignView, error) {
	c, err := s.owned(ctx, learner, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(c); err != nil {
		return nil, err
	}

	note := postItText(in)
	if note == "" {
		return nil, ErrEmptyPostIt
	}
	if in.Mood < 0 || in.Mood > len(Moods) {
		return nil, fmt.Errorf("%w: mood must be between 1 and %d", ErrInvalidInput, len(Moods))
	}
	week := in.Week
	if week == 0 {
		week = plan.CurrentWeek(c, s.now())
	}
	w, err := editableWeek(&c, week)
	if err != nil {
		return nil, err
	}
	if in.ActionID != "" && w.ActionByID(in.ActionID) < 0 {
		return nil, ErrActionNotFound
	}

	if in.Mood > 0 {
		mood := in.Mood
		w.MoodScore = &mood
	}
	if in.AddToComment {
		if w.LearnerComment == "" {
			w.LearnerComment = note
		} else {
			w.LearnerComment += "\n\n" + note
		}
	}
	w.UpdatedAt = s.timestamp()

	payload := map[string]any{"week": week, "note": note}
	if in.Mood > 0 {
		payload["mood"] = in.Mood
		payload["mood_label"] = Moods[in.Mood-1]
	}
	if in.ActionID != "" {
		payload["action_id"] = in.ActionID
	}
	if tags := cleanTags(in.Tags); len(tags) > 0 {
		payload["tags"] = tags
	}
	payload["shared"] = in.ShareWithCoach
	c.AppendEvent(learner.Email, EventPostItAdded, payload, s.now())
	if err := s.save(ctx, &c); err != nil {
		return nil, err
	}

	if in.ShareWithCoach {
		notify(ctx, s.notifier, s.logger, Notification{
			Key:     fmt.Sprintf("JOURNAL_SHARED:%s:%d:%d", c.ID, week, len(c.Events)),
			Type:    NotifyJournalShared,
			To:      c.CoachEmail,
			Subject: mailSubject(fmt.Sprintf("Post-it semaine %d", week), c.Objective, c.ID),
			Body:    note,
			Meta:    map[string]any{"campaign_id": c.ID, "week": week},
		})
	}
	return s.view(c), nil
}

func (s *learnerService) owned(ctx context.Context, learner Actor, id string) (domain.Campaign, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return c, err
	}
	if !learner.isAdmin() && c.LearnerEmail != domain.NormalizeEmail(learner.Email) {
		return domain.Campaign{}, ErrForbidden
	}
	return c, nil
}

func requireActive(c domain.Campaign) error {
	switch c.Status {
	case domain.CampaignActive:
		return nil
	case domain.CampaignClosed:
		return ErrCampaignClosed
	default:
		return ErrCampaignNotActive
	}
}

func postItText(in PostItInput) string {
	var parts []string
	for _, p := range []struct{ label, text string }{
		{"Succès", in.Success},
		{"Difficulté", in.Difficulty},
		{"Apprentissage", in.Learning},
	} {
		if t := strings.TrimSpace(p.text); t != "" {
			parts = append(parts, p.label+" : "+t)
		}
	}
	return strings.Join(parts, "\n")
}

func cleanTags(tags []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}
