// Package plan turns a campaign's free program text into a structured weekly
// plan and measures progress on it.
package plan

import (
	"strings"

	"everskills/coaching-app/internal/domain"
)

// DefaultWeeks is used when a campaign carries no usable week count.
const DefaultWeeks = 3

// Normalizer brings a campaign's weekly plan into canonical shape.
type Normalizer struct {
	Vocabulary   domain.Vocabulary
	DefaultWeeks int
}

func NewNormalizer(vocab domain.Vocabulary) Normalizer {
	return Normalizer{Vocabulary: vocab, DefaultWeeks: DefaultWeeks}
}

// Normalize returns a copy of c whose weekly plan holds exactly one entry per
// week from 1 to c.Weeks, in order. Human data already present on a week is
// kept; empty actions are dropped and action statuses are mapped onto the
// active vocabulary. Entries numbered above the week count are discarded.
//
// Normalize is idempotent and never modifies c.
func (n Normalizer) Normalize(c domain.Campaign) domain.Campaign {
	out := c.Clone()

	weeks := c.Weeks
	if weeks < 1 {
		weeks = n.DefaultWeeks
		if weeks < 1 {
			weeks = DefaultWeeks
		}
	}
	out.Weeks = weeks

	byWeek := make(map[int]domain.WeekPlan, len(out.WeeklyPlan))
	for _, w := range out.WeeklyPlan {
		byWeek[w.Week] = w // last duplicate wins
	}

	plan := make([]domain.WeekPlan, 0, weeks)
	for i := 1; i <= weeks; i++ {
		plan = append(plan, n.normalizeWeek(i, byWeek[i]))
	}
	out.WeeklyPlan = plan

	out.KickoffMessage = strings.TrimSpace(out.KickoffMessage)
	out.ClosureMessage = strings.TrimSpace(out.ClosureMessage)
	return out
}

func (n Normalizer) normalizeWeek(week int, w domain.WeekPlan) domain.WeekPlan {
	w.Week = week
	w.ObjectiveWeek = strings.TrimSpace(w.ObjectiveWeek)
	w.LearnerComment = strings.TrimSpace(w.LearnerComment)
	w.CoachComment = strings.TrimSpace(w.CoachComment)
	w.UpdatedAt = strings.TrimSpace(w.UpdatedAt)
	w.ClosedAt = strings.TrimSpace(w.ClosedAt)

	actions := make([]domain.Action, 0, len(w.Actions))
	for _, a := range w.Actions {
		text := strings.TrimSpace(a.Text)
		if text == "" {
			continue
		}
		actions = append(actions, domain.Action{
			ID:     strings.TrimSpace(a.ID),
			Text:   text,
			Status: n.Vocabulary.Normalize(string(a.Status)),
		})
	}
	w.Actions = actions
	return w
}
