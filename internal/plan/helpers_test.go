package plan

import (
	"fmt"
	"time"

	"everskills/coaching-app/internal/domain"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("act-%d", n)
	}
}

func intPtr(v int) *int { return &v }

// fixtures returns campaigns covering the shapes found in stored data.
func fixtures() []domain.Campaign {
	created := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return []domain.Campaign{
		{ID: "empty"},
		{ID: "negative-weeks", Weeks: -2},
		{
			ID:    "messy",
			Weeks: 3,
			WeeklyPlan: []domain.WeekPlan{
				{Week: 2, ObjectiveWeek: "  old  ", LearnerComment: "première version"},
				{Week: 1, ObjectiveWeek: "Écouter", Actions: []domain.Action{
					{Text: "  Reformuler ", Status: "done"},
					{Text: "", Status: "partial"},
					{ID: "x1", Text: "Noter", Status: "bizarre"},
				}},
				{Week: 2, ObjectiveWeek: "new", LearnerComment: " semaine dense ", MoodScore: intPtr(4)},
				{Week: 5, ObjectiveWeek: "hors plage"},
			},
			KickoffMessage: "  Bonjour  ",
			CreatedAt:      created,
		},
		{
			ID:    "with-extras",
			Weeks: 2,
			WeeklyPlan: []domain.WeekPlan{
				{Week: 1, Closed: true, ClosedAt: "2025-03-10T10:00:00Z", Extra: map[string]any{"voice_notes": []any{"n1"}}},
			},
			Extra: map[string]any{"legacy_flag": true},
		},
	}
}
