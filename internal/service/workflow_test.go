package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
	"everskills/coaching-app/internal/repository/jsonfile"
)

const programText = "Semaine 1: Objectif: Gagner en clarté\n- Préparer 3 messages clés\n- Tester en réunion\nSemaine 2: Oser\n- Prendre la parole en premier"

type workflow struct {
	ctx       context.Context
	clock     time.Time
	campaigns repository.CampaignRepository
	requests  repository.RequestRepository
	notifier  *LogNotifier
	reqs      RequestService
	coach     CoachService
	learner   LearnerService
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()
	store, err := jsonfile.Open(t.TempDir(), discardLogger())
	require.NoError(t, err)

	users := jsonfile.NewUserRepository(store)
	for _, u := range []domain.User{
		{Name: "Ana Martin", Email: learnerActor.Email, Role: domain.RoleLearner},
		{Name: "Paul Durand", Email: coachActor.Email, Role: domain.RoleCoach},
		{Name: "Eve", Email: "eve@example.com", Role: domain.RoleCoach},
		{Name: "Admin", Email: adminActor.Email, Role: domain.RoleAdmin},
	} {
		u.PasswordHash = "hash"
		_, err := users.Create(context.Background(), &u)
		require.NoError(t, err)
	}

	w := &workflow{
		ctx:       context.Background(),
		clock:     time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		campaigns: jsonfile.NewCampaignRepository(store),
		requests:  jsonfile.NewRequestRepository(store),
		notifier:  NewLogNotifier(discardLogger()),
	}
	settings := PlanSettings{Vocabulary: domain.VocabularyDifficulty}
	w.reqs = NewRequestService(w.requests, users, nil, w.notifier, discardLogger(), 3)

	coach := NewCoachService(w.campaigns, w.requests, users, settings, w.notifier, discardLogger()).(*coachService)
	coach.now = w.now
	w.coach = coach
	learner := NewLearnerService(w.campaigns, users, settings, w.notifier, discardLogger()).(*learnerService)
	learner.now = w.now
	w.learner = learner
	return w
}

func (w *workflow) now() time.Time { return w.clock }

// draftCampaign submits a 2-week request, assigns it and opens a campaign.
func (w *workflow) draftCampaign(t *testing.T) *CampaignView {
	t.Helper()
	req, err := w.reqs.Submit(w.ctx, learnerActor, SubmitRequestInput{Objective: "Prendre confiance en réunion", Weeks: 2})
	require.NoError(t, err)
	_, err = w.reqs.AssignCoach(w.ctx, adminActor, req.ID, coachActor.Email)
	require.NoError(t, err)
	v, err := w.coach.CreateCampaignFromRequest(w.ctx, coachActor, req.ID)
	require.NoError(t, err)
	return v
}

// activeCampaign publishes the program and activates it.
func (w *workflow) activeCampaign(t *testing.T) *CampaignView {
	t.Helper()
	v := w.draftCampaign(t)
	_, _, err := w.coach.SaveProgram(w.ctx, coachActor, v.Campaign.ID, programText)
	require.NoError(t, err)
	_, err = w.coach.PublishProgram(w.ctx, coachActor, v.Campaign.ID)
	require.NoError(t, err)
	v, err = w.learner.Activate(w.ctx, learnerActor, v.Campaign.ID)
	require.NoError(t, err)
	return v
}

func eventTypes(c domain.Campaign) []string {
	var out []string
	for _, e := range c.Events {
		out = append(out, e.Type)
	}
	return out
}

func TestCreateCampaignFromRequest(t *testing.T) {
	w := newWorkflow(t)
	v := w.draftCampaign(t)
	c := v.Campaign

	assert.Equal(t, "camp_"+c.RequestID, c.ID)
	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.Equal(t, coachActor.Email, c.CoachEmail)
	require.Len(t, c.WeeklyPlan, 2)
	assert.Equal(t, 1, c.WeeklyPlan[0].Week)
	assert.Contains(t, c.KickoffMessage, "Bonjour Ana,")
	assert.Contains(t, c.KickoffMessage, "(2 semaines)")
	assert.Contains(t, c.KickoffMessage, "\nPaul")
	assert.Equal(t, []string{EventCampaignCreated}, eventTypes(c))

	req, err := w.requests.GetByID(w.ctx, c.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestInProgress, req.Status)

	_, err = w.coach.CreateCampaignFromRequest(w.ctx, coachActor, c.RequestID)
	assert.ErrorIs(t, err, ErrCampaignExists)
}

func TestCreateCampaignFromRequest_NotAssignedCoach(t *testing.T) {
	w := newWorkflow(t)
	req, err := w.reqs.Submit(w.ctx, learnerActor, SubmitRequestInput{Objective: "x"})
	require.NoError(t, err)

	_, err = w.coach.CreateCampaignFromRequest(w.ctx, Actor{Email: "eve@example.com", Role: domain.RoleCoach}, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSaveProgram_FillsPlan(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID

	v, changed, err := w.coach.SaveProgram(w.ctx, coachActor, id, programText)
	require.NoError(t, err)
	assert.True(t, changed)

	w1 := v.Campaign.WeeklyPlan[0]
	assert.Equal(t, "Gagner en clarté", w1.ObjectiveWeek)
	require.Len(t, w1.Actions, 2)
	assert.Equal(t, "Préparer 3 messages clés", w1.Actions[0].Text)
	assert.Equal(t, domain.StatusWithinReach, w1.Actions[0].Status)
	assert.NotEmpty(t, w1.Actions[0].ID)
	assert.Equal(t, "Oser", v.Campaign.WeeklyPlan[1].ObjectiveWeek)
	assert.Contains(t, v.ProgramHTML, "<li>")

	// Saving the same text again does not touch the plan.
	v2, changed, err := w.coach.SaveProgram(w.ctx, coachActor, id, programText)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, v.Campaign.WeeklyPlan, v2.Campaign.WeeklyPlan)

	stored, err := w.campaigns.GetByID(w.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, w1.Actions[0].ID, stored.WeeklyPlan[0].Actions[0].ID)
}

func TestEditWeek_PreservesUnchangedActions(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID
	v, _, err := w.coach.SaveProgram(w.ctx, coachActor, id, programText)
	require.NoError(t, err)
	before := v.Campaign.WeeklyPlan[0].Actions

	objective := "Clarifier mon message"
	comment := "Bon début"
	v, err = w.coach.EditWeek(w.ctx, coachActor, id, 1, WeekEdit{
		Objective: &objective,
		Actions: &[]ActionEdit{
			{Text: "Tester en réunion"},
			{ID: before[0].ID, Text: "Préparer 3 messages clés", Status: domain.StatusHard},
			{Text: "Demander un retour"},
			{Text: "   "},
		},
		CoachComment: &comment,
	})
	require.NoError(t, err)

	week := v.Campaign.WeeklyPlan[0]
	assert.Equal(t, objective, week.ObjectiveWeek)
	require.Len(t, week.Actions, 3)
	assert.Equal(t, before[1].ID, week.Actions[0].ID)
	assert.Equal(t, before[0].ID, week.Actions[1].ID)
	assert.Equal(t, domain.StatusHard, week.Actions[1].Status)
	assert.NotEmpty(t, week.Actions[2].ID)
	assert.Equal(t, domain.StatusWithinReach, week.Actions[2].Status)
	assert.Equal(t, "Bon début", week.CoachComment)
	assert.Equal(t, "2025-03-03T09:00:00Z", week.UpdatedAt)

	_, err = w.coach.EditWeek(w.ctx, coachActor, id, 1, WeekEdit{Actions: &[]ActionEdit{{Text: "x", Status: "bizarre"}}})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = w.coach.EditWeek(w.ctx, coachActor, id, 9, WeekEdit{Objective: &objective})
	assert.ErrorIs(t, err, ErrWeekNotFound)
}

func TestPublishProgram(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID

	_, err := w.coach.PublishProgram(w.ctx, coachActor, id)
	assert.ErrorIs(t, err, ErrProgramEmpty)

	_, _, err = w.coach.SaveProgram(w.ctx, coachActor, id, programText)
	require.NoError(t, err)
	v, err := w.coach.PublishProgram(w.ctx, coachActor, id)
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignProgramReady, v.Campaign.Status)
	assert.Contains(t, eventTypes(v.Campaign), EventProgramPublished)
	assert.True(t, w.notifier.Sent("PROGRAM_READY:"+id))

	req, err := w.requests.GetByID(w.ctx, v.Campaign.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestArchived, req.Status)
}

func TestPublishProgram_RefillsKickoff(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID
	empty := ""
	_, err := w.coach.UpdateMessages(w.ctx, coachActor, id, MessagesEdit{Kickoff: &empty})
	require.NoError(t, err)
	_, _, err = w.coach.SaveProgram(w.ctx, coachActor, id, programText)
	require.NoError(t, err)

	v, err := w.coach.PublishProgram(w.ctx, coachActor, id)
	require.NoError(t, err)
	assert.Contains(t, v.Campaign.KickoffMessage, "Bonjour Ana,")
	assert.Contains(t, eventTypes(v.Campaign), EventKickoffAutofill)
}

func TestCoachAccess(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID

	_, err := w.coach.GetCampaign(w.ctx, Actor{Email: "eve@example.com", Role: domain.RoleCoach}, id)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.coach.GetCampaign(w.ctx, adminActor, id)
	assert.NoError(t, err)

	_, err = w.coach.GetCampaign(w.ctx, coachActor, "camp_missing")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestActivate(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID

	_, err := w.learner.Activate(w.ctx, learnerActor, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	v := w.activeCampaign(t)
	assert.Equal(t, domain.CampaignActive, v.Campaign.Status)
	require.NotNil(t, v.Campaign.ActivatedAt)
	assert.Equal(t, w.clock, *v.Campaign.ActivatedAt)
	assert.Equal(t, 1, v.CurrentWeek)
	assert.True(t, w.notifier.Sent("PROGRAM_VALIDATED:"+v.Campaign.ID))
	assert.True(t, w.notifier.Sent("PROGRAM_STARTED:"+v.Campaign.ID))
}

func TestUpdateWeek(t *testing.T) {
	w := newWorkflow(t)
	v := w.activeCampaign(t)
	id := v.Campaign.ID
	actions := v.Campaign.WeeklyPlan[0].Actions
	second := 1
	comment := "  Semaine riche  "

	v, err := w.learner.UpdateWeek(w.ctx, learnerActor, id, 1, LearnerWeekUpdate{
		Statuses: []StatusUpdate{
			{ActionID: actions[0].ID, Status: domain.StatusVeryEasy},
			{Index: &second, Status: domain.StatusEasy},
		},
		Comment: &comment,
	})
	require.NoError(t, err)

	week := v.Campaign.WeeklyPlan[0]
	assert.Equal(t, domain.StatusVeryEasy, week.Actions[0].Status)
	assert.Equal(t, domain.StatusEasy, week.Actions[1].Status)
	assert.Equal(t, "Semaine riche", week.LearnerComment)
	assert.Equal(t, 2, v.Weeks[0].Progress.Done)
	assert.InDelta(t, 100.0, v.Weeks[0].Progress.Percent, 0.001)
	assert.InDelta(t, 50.0, v.Global.Percent, 0.001)
	assert.True(t, w.notifier.Sent("LEARNER_UPDATE:"+id+":1:2025-03-03T09:00:00Z"))
}

func TestUpdateWeek_Rejections(t *testing.T) {
	w := newWorkflow(t)
	v := w.activeCampaign(t)
	id := v.Campaign.ID
	first := v.Campaign.WeeklyPlan[0].Actions[0].ID

	_, err := w.learner.UpdateWeek(w.ctx, learnerActor, id, 1, LearnerWeekUpdate{
		Statuses: []StatusUpdate{{ActionID: first, Status: domain.StatusDone}},
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = w.learner.UpdateWeek(w.ctx, learnerActor, id, 1, LearnerWeekUpdate{
		Statuses: []StatusUpdate{{ActionID: "nope", Status: domain.StatusEasy}},
	})
	assert.ErrorIs(t, err, ErrActionNotFound)

	_, err = w.learner.UpdateWeek(w.ctx, Actor{Email: "eve@example.com", Role: domain.RoleLearner}, id, 1, LearnerWeekUpdate{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.coach.CloseWeek(w.ctx, coachActor, id, 1)
	require.NoError(t, err)
	_, err = w.learner.UpdateWeek(w.ctx, learnerActor, id, 1, LearnerWeekUpdate{})
	assert.ErrorIs(t, err, ErrWeekClosed)

	_, err = w.coach.CloseCampaign(w.ctx, coachActor, id)
	require.NoError(t, err)
	_, err = w.learner.UpdateWeek(w.ctx, learnerActor, id, 2, LearnerWeekUpdate{})
	assert.ErrorIs(t, err, ErrCampaignClosed)
}

func TestUpdateWeek_NotActive(t *testing.T) {
	w := newWorkflow(t)
	id := w.draftCampaign(t).Campaign.ID

	_, err := w.learner.UpdateWeek(w.ctx, learnerActor, id, 1, LearnerWeekUpdate{})
	assert.ErrorIs(t, err, ErrCampaignNotActive)
}

func TestAddPostIt(t *testing.T) {
	w := newWorkflow(t)
	v := w.activeCampaign(t)
	id := v.Campaign.ID
	actionID := v.Campaign.WeeklyPlan[0].Actions[0].ID

	_, err := w.learner.AddPostIt(w.ctx, learnerActor, id, PostItInput{Mood: 2})
	assert.ErrorIs(t, err, ErrEmptyPostIt)

	_, err = w.learner.AddPostIt(w.ctx, learnerActor, id, PostItInput{Success: "ok", ActionID: "nope"})
	assert.ErrorIs(t, err, ErrActionNotFound)

	_, err = w.learner.AddPostIt(w.ctx, learnerActor, id, PostItInput{Success: "ok", Mood: 9})
	assert.ErrorIs(t, err, ErrInvalidInput)

	v, err = w.learner.AddPostIt(w.ctx, learnerActor, id, PostItInput{
		Mood:           1,
		Success:        "J'ai osé parler",
		Learning:       "Préparer aide",
		Tags:           []string{"#réunion", "réunion", " "},
		ActionID:       actionID,
		AddToComment:   true,
		ShareWithCoach: true,
	})
	require.NoError(t, err)

	week := v.Campaign.WeeklyPlan[0]
	require.NotNil(t, week.MoodScore)
	assert.Equal(t, 1, *week.MoodScore)
	assert.Equal(t, "Succès : J'ai osé parler\nApprentissage : Préparer aide", week.LearnerComment)

	last := v.Campaign.Events[len(v.Campaign.Events)-1]
	assert.Equal(t, EventPostItAdded, last.Type)
	assert.Equal(t, actionID, last.Payload["action_id"])
	assert.Equal(t, []string{"réunion"}, last.Payload["tags"])
	assert.Equal(t, Moods[0], last.Payload["mood_label"])
}

func TestCloseCampaign(t *testing.T) {
	w := newWorkflow(t)
	v := w.activeCampaign(t)
	id := v.Campaign.ID

	v, err := w.coach.CloseCampaign(w.ctx, coachActor, id)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignClosed, v.Campaign.Status)
	require.NotNil(t, v.Campaign.ClosedAt)
	assert.Contains(t, v.Campaign.ClosureMessage, "Cher Ana,")
	assert.Contains(t, v.Campaign.ClosureMessage, "Prendre confiance en réunion")
	assert.True(t, w.notifier.Sent("CAMPAIGN_CLOSED:"+id))

	_, _, err = w.coach.SaveProgram(w.ctx, coachActor, id, "x")
	assert.ErrorIs(t, err, ErrCampaignClosed)

	v, err = w.coach.SetDraft(w.ctx, coachActor, id)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignDraft, v.Campaign.Status)
	assert.Nil(t, v.Campaign.ClosedAt)
}

func TestCurrentWeek(t *testing.T) {
	w := newWorkflow(t)
	id := w.activeCampaign(t).Campaign.ID

	w.clock = w.clock.Add(8 * 24 * time.Hour)
	wk, err := w.learner.CurrentWeek(w.ctx, learnerActor, id)
	require.NoError(t, err)
	assert.Equal(t, 2, wk)

	w.clock = w.clock.Add(60 * 24 * time.Hour)
	wk, err = w.learner.CurrentWeek(w.ctx, learnerActor, id)
	require.NoError(t, err)
	assert.Equal(t, 2, wk)
}

func TestListCampaigns(t *testing.T) {
	w := newWorkflow(t)
	w.draftCampaign(t)

	mine, err := w.learner.ListCampaigns(w.ctx, learnerActor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	coached, err := w.coach.ListCampaigns(w.ctx, coachActor)
	require.NoError(t, err)
	assert.Len(t, coached, 1)

	other, err := w.coach.ListCampaigns(w.ctx, Actor{Email: "eve@example.com", Role: domain.RoleCoach})
	require.NoError(t, err)
	assert.Empty(t, other)
}
