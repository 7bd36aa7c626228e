package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/program"
)

const scenarioText = "Semaine 1: Objectif: Gagner en clarté\n- Préparer 3 messages clés\n- Tester en réunion\nSemaine 2: ..."

func newTestEngine(vocab domain.Vocabulary) *SyncEngine {
	e := NewSyncEngine(vocab)
	e.NewID = seqIDs()
	return e
}

func TestSync_EmptyProgram(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	c := domain.Campaign{ID: "c1", Weeks: 2, ProgramText: "   "}

	out, changed := e.Sync(c)

	assert.False(t, changed)
	assert.Equal(t, c, out)
}

func TestSync_FillsEmptyPlan(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	c := domain.Campaign{ID: "c1", Weeks: 2, ProgramText: scenarioText}

	out, changed := e.Sync(c)

	require.True(t, changed)
	assert.Equal(t, program.ContentHash(scenarioText), out.WeeklyInitProgramHash)
	require.Len(t, out.WeeklyPlan, 2)

	w1 := out.WeeklyPlan[0]
	assert.Equal(t, "Gagner en clarté", w1.ObjectiveWeek)
	assert.Equal(t, []domain.Action{
		{ID: "act-1", Text: "Préparer 3 messages clés", Status: domain.StatusWithinReach},
		{ID: "act-2", Text: "Tester en réunion", Status: domain.StatusWithinReach},
	}, w1.Actions)

	assert.Equal(t, "...", out.WeeklyPlan[1].ObjectiveWeek)
	assert.Empty(t, out.WeeklyPlan[1].Actions)
}

func TestSync_TrackingVocabularyDefault(t *testing.T) {
	e := newTestEngine(domain.VocabularyTracking)
	out, changed := e.Sync(domain.Campaign{Weeks: 1, ProgramText: scenarioText})

	require.True(t, changed)
	for _, a := range out.WeeklyPlan[0].Actions {
		assert.Equal(t, domain.StatusNotStarted, a.Status)
	}
}

func TestSync_SecondRunIsNoop(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	first, changed := e.Sync(domain.Campaign{ID: "c1", Weeks: 2, ProgramText: scenarioText})
	require.True(t, changed)

	second, changed := e.Sync(first)

	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestSync_KeepsCoachEdits(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	first, _ := e.Sync(domain.Campaign{ID: "c1", Weeks: 2, ProgramText: scenarioText})
	first.WeeklyPlan[0].ObjectiveWeek = "Custom objective"

	out, changed := e.Sync(first)
	assert.False(t, changed)
	assert.Equal(t, "Custom objective", out.WeeklyPlan[0].ObjectiveWeek)

	// new text, same rule
	out.ProgramText = "Semaine 1: Objectif: Autre chose\n- Une autre action\nSemaine 2: Objectif: Suite\n- Continuer"
	out, changed = e.Sync(out)
	assert.True(t, changed)
	assert.Equal(t, "Custom objective", out.WeeklyPlan[0].ObjectiveWeek)
	assert.Equal(t, "Préparer 3 messages clés", out.WeeklyPlan[0].Actions[0].Text)
	assert.Equal(t, "...", out.WeeklyPlan[1].ObjectiveWeek)
	assert.Equal(t, []domain.Action{{ID: "act-3", Text: "Continuer", Status: domain.StatusWithinReach}}, out.WeeklyPlan[1].Actions)
}

func TestSync_UnstructuredText(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)

	t.Run("unfilled weeks keep retrying", func(t *testing.T) {
		c := domain.Campaign{Weeks: 2, ProgramText: "Un programme libre, sans semaines."}
		out, changed := e.Sync(c)
		assert.False(t, changed)
		assert.Empty(t, out.WeeklyInitProgramHash)
		assert.Len(t, out.WeeklyPlan, 2)
	})

	t.Run("filled weeks store the hash", func(t *testing.T) {
		c := domain.Campaign{
			Weeks:       1,
			ProgramText: "Un programme libre, sans semaines.",
			WeeklyPlan:  []domain.WeekPlan{{Week: 1, ObjectiveWeek: "Déjà rempli"}},
		}
		out, changed := e.Sync(c)
		assert.True(t, changed)
		assert.Equal(t, program.ContentHash(c.ProgramText), out.WeeklyInitProgramHash)
		assert.Equal(t, "Déjà rempli", out.WeeklyPlan[0].ObjectiveWeek)

		_, changed = e.Sync(out)
		assert.False(t, changed)
	})
}

func TestSync_StaleHashWithUnfilledWeekRetries(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	c := domain.Campaign{
		Weeks:                 2,
		ProgramText:           scenarioText,
		WeeklyInitProgramHash: program.ContentHash(scenarioText),
	}

	out, changed := e.Sync(c)

	assert.True(t, changed)
	assert.Equal(t, "Gagner en clarté", out.WeeklyPlan[0].ObjectiveWeek)
}

func TestSync_DoesNotReplaceExistingActions(t *testing.T) {
	e := newTestEngine(domain.VocabularyDifficulty)
	c := domain.Campaign{
		Weeks:       1,
		ProgramText: scenarioText,
		WeeklyPlan: []domain.WeekPlan{{Week: 1, Actions: []domain.Action{
			{ID: "keep", Text: "Action du coach", Status: domain.StatusEasy},
		}}},
	}

	out, changed := e.Sync(c)

	assert.True(t, changed)
	assert.Equal(t, "Gagner en clarté", out.WeeklyPlan[0].ObjectiveWeek)
	assert.Equal(t, []domain.Action{{ID: "keep", Text: "Action du coach", Status: domain.StatusEasy}}, out.WeeklyPlan[0].Actions)
}

func TestSync_NeverChangesExistingObjectives(t *testing.T) {
	texts := []string{
		scenarioText,
		"Semaine 1: Objectif: Écraser\nSemaine 2: Objectif: Écraser aussi",
		"Semaine 99: rien",
		"## Semaine 1\n### Objectif :",
		"",
	}
	e := newTestEngine(domain.VocabularyDifficulty)
	for _, text := range texts {
		c := domain.Campaign{
			Weeks:       2,
			ProgramText: text,
			WeeklyPlan: []domain.WeekPlan{
				{Week: 1, ObjectiveWeek: "Mien"},
				{Week: 2, ObjectiveWeek: "Aussi le mien"},
			},
		}
		out, _ := e.Sync(c)
		assert.Equal(t, "Mien", out.WeeklyPlan[0].ObjectiveWeek, text)
		assert.Equal(t, "Aussi le mien", out.WeeklyPlan[1].ObjectiveWeek, text)
	}
}
