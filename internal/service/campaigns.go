package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/plan"
	"everskills/coaching-app/internal/render"
	"everskills/coaching-app/internal/repository"
)

// Campaign event types.
const (
	EventCampaignCreated  = "campaign_created"
	EventProgramSaved     = "program_saved"
	EventProgramPublished = "program_published"
	EventKickoffSaved     = "kickoff_saved"
	EventKickoffAutofill  = "kickoff_autofill"
	EventCoachWeekSaved   = "coach_week_saved"
	EventWeekClosed       = "week_closed"
	EventStatusDraft      = "status_draft"
	EventCampaignClosed   = "campaign_closed"
	EventClosureSaved     = "closure_saved"
	EventClosureAutofill  = "closure_autofill"
	EventProgramActivated = "program_activated"
	EventLearnerWeekSaved = "learner_week_saved"
	EventPostItAdded      = "postit_added"
)

// PlanSettings configures the plan engine shared by the campaign services.
type PlanSettings struct {
	Vocabulary   domain.Vocabulary
	DoneStatuses []string // overrides the vocabulary's done set when not empty
}

// StatusOption is one selectable action status.
type StatusOption struct {
	Value domain.ActionStatus `json:"value"`
	Label string              `json:"label"`
}

// WeekProgress is the progress of one week.
type WeekProgress struct {
	Week     int           `json:"week"`
	Closed   bool          `json:"closed"`
	Progress plan.Progress `json:"progress"`
}

// CampaignView is a campaign as shown to its coach or learner.
type CampaignView struct {
	Campaign    domain.Campaign `json:"campaign"`
	Weeks       []WeekProgress  `json:"weeks"`
	Global      plan.Progress   `json:"global"`
	CurrentWeek int             `json:"current_week"`
	ProgramHTML string          `json:"program_html"`
	Statuses    []StatusOption  `json:"statuses"`
}

// campaignBase holds what coach and learner services share: loading,
// reconciling and saving campaigns.
type campaignBase struct {
	campaignRepo repository.CampaignRepository
	userRepo     repository.UserRepository
	engine       *plan.SyncEngine
	calc         plan.Calculator
	notifier     Notifier
	logger       *slog.Logger
	now          func() time.Time
}

func newCampaignBase(
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	settings PlanSettings,
	notifier Notifier,
	logger *slog.Logger,
) campaignBase {
	if logger == nil {
		logger = slog.Default()
	}
	vocab := settings.Vocabulary
	if vocab == "" {
		vocab = domain.DefaultVocabulary
	}
	return campaignBase{
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		engine:       plan.NewSyncEngine(vocab),
		calc:         plan.NewCalculator(vocab, settings.DoneStatuses),
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

func (b *campaignBase) vocabulary() domain.Vocabulary {
	return b.engine.Normalizer.Vocabulary
}

// load fetches a campaign and brings it into canonical shape. Every
// campaign handed out by the services goes through here.
func (b *campaignBase) load(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := b.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("loading campaign %s: %w", id, err)
	}
	return b.reconcile(*c), nil
}

// reconcile normalizes and syncs without persisting.
func (b *campaignBase) reconcile(c domain.Campaign) domain.Campaign {
	synced, _ := b.engine.Sync(b.engine.Normalizer.Normalize(c))
	return synced
}

func (b *campaignBase) save(ctx context.Context, c *domain.Campaign) error {
	if err := b.campaignRepo.Upsert(ctx, c); err != nil {
		return fmt.Errorf("saving campaign %s: %w", c.ID, err)
	}
	return nil
}

func (b *campaignBase) list(ctx context.Context, fetch func(context.Context, string) ([]domain.Campaign, error), email string) ([]domain.Campaign, error) {
	campaigns, err := fetch(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	for i := range campaigns {
		campaigns[i] = b.reconcile(campaigns[i])
	}
	return campaigns, nil
}

// firstName returns the display first name of the user with email, or "".
func (b *campaignBase) firstName(ctx context.Context, email string) string {
	if email == "" || b.userRepo == nil {
		return ""
	}
	u, err := b.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			b.logger.WarnContext(ctx, "looking up user failed", "email", email, "error", err)
		}
		return ""
	}
	return u.DisplayFirstName()
}

func (b *campaignBase) timestamp() string {
	return b.now().UTC().Format(time.RFC3339)
}

// View builds the read model of a reconciled campaign.
func (b *campaignBase) view(c domain.Campaign) *CampaignView {
	v := &CampaignView{
		Campaign:    c,
		Global:      b.calc.GlobalProgress(c),
		CurrentWeek: plan.CurrentWeek(c, b.now()),
	}
	for _, w := range c.WeeklyPlan {
		v.Weeks = append(v.Weeks, WeekProgress{Week: w.Week, Closed: w.Closed, Progress: b.calc.WeekProgress(w)})
	}
	for _, s := range b.vocabulary().Statuses() {
		v.Statuses = append(v.Statuses, StatusOption{Value: s, Label: s.Label()})
	}
	if c.ProgramText != "" {
		html, err := render.ProgramHTML(c.ProgramText)
		if err != nil {
			b.logger.Warn("rendering program failed", "campaign_id", c.ID, "error", err)
		} else {
			v.ProgramHTML = html
		}
	}
	return v
}

func editableWeek(c *domain.Campaign, week int) (*domain.WeekPlan, error) {
	if c.IsClosed() {
		return nil, ErrCampaignClosed
	}
	w := c.Week(week)
	if w == nil {
		return nil, ErrWeekNotFound
	}
	if w.Closed {
		return nil, ErrWeekClosed
	}
	return w, nil
}
