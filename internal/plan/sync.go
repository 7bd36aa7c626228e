package plan

import (
	"strings"

	"github.com/google/uuid"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/program"
)

// SyncEngine fills a campaign's weekly plan from its program text.
type SyncEngine struct {
	Normalizer Normalizer
	Extractor  program.SectionExtractor
	Picker     program.ActionPicker
	NewID      func() string
}

// NewSyncEngine wires the default "Semaine N:" extractor and bullet picker.
func NewSyncEngine(vocab domain.Vocabulary) *SyncEngine {
	return &SyncEngine{
		Normalizer: NewNormalizer(vocab),
		Extractor:  program.WeekHeaderExtractor{},
		Picker:     program.BulletPicker{},
		NewID:      uuid.NewString,
	}
}

// NeedsFill reports whether some week has neither objective nor action.
func NeedsFill(c domain.Campaign) bool {
	for _, w := range c.WeeklyPlan {
		if w.Unfilled() {
			return true
		}
	}
	return false
}

// Sync reconciles the program text into the weekly plan. It only fills what
// is empty: a week objective is written when the week has none, and actions
// are written when the week has no action with text. Anything a coach or a
// learner entered is left alone.
//
// The returned flag reports whether the plan (or, for a program without week
// headers, the stored hash) changed. Empty program text returns c as is.
func (e *SyncEngine) Sync(c domain.Campaign) (domain.Campaign, bool) {
	text := strings.TrimSpace(c.ProgramText)
	if text == "" {
		return c, false
	}

	out := e.Normalizer.Normalize(c)
	hash := program.ContentHash(text)
	needsRetry := NeedsFill(out)

	if strings.TrimSpace(out.WeeklyInitProgramHash) == hash && !needsRetry {
		return out, false
	}

	sections := e.Extractor.Extract(text)
	if len(sections) == 0 {
		if needsRetry {
			// the text may gain week headers later
			return out, false
		}
		out.WeeklyInitProgramHash = hash
		return out, true
	}

	changed := false
	for i := range out.WeeklyPlan {
		w := &out.WeeklyPlan[i]
		lines := sections[w.Week]
		if len(lines) == 0 {
			continue
		}
		objective, actions := e.Picker.Pick(lines)

		if w.ObjectiveWeek == "" && strings.TrimSpace(objective) != "" {
			w.ObjectiveWeek = strings.TrimSpace(objective)
			changed = true
		}

		if !w.HasAction() {
			fresh := e.newActions(actions)
			if len(fresh) > 0 {
				w.Actions = fresh
				changed = true
			}
		}
	}

	out.WeeklyInitProgramHash = hash
	return out, changed
}

func (e *SyncEngine) newActions(texts []string) []domain.Action {
	newID := e.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	var actions []domain.Action
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		actions = append(actions, domain.Action{
			ID:     newID(),
			Text:   t,
			Status: e.Normalizer.Vocabulary.Default(),
		})
	}
	return actions
}
