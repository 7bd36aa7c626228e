package domain

import "strings"

// Action is one task the learner carries out during a week.
type Action struct {
	ID     string       `bson:"id,omitempty" json:"id,omitempty"` // Lets post-its and widgets point at a specific action
	Text   string       `bson:"text" json:"text"`
	Status ActionStatus `bson:"status" json:"status"`
}

// HasText reports whether the action counts at all (empty actions are ignored).
func (a Action) HasText() bool {
	return strings.TrimSpace(a.Text) != ""
}

// WeekPlan is the structured content of one week of a campaign.
type WeekPlan struct {
	Week           int      `bson:"week" json:"week"`
	ObjectiveWeek  string   `bson:"objective_week" json:"objective_week"`
	Actions        []Action `bson:"actions" json:"actions"`
	LearnerComment string   `bson:"learner_comment" json:"learner_comment"`
	CoachComment   string   `bson:"coach_comment" json:"coach_comment"`
	UpdatedAt      string   `bson:"updated_at" json:"updated_at"`
	MoodScore      *int     `bson:"mood_score" json:"mood_score"`
	Closed         bool     `bson:"closed" json:"closed"`
	ClosedAt       string   `bson:"closed_at" json:"closed_at"`

	Extra map[string]any `bson:",inline" json:"-"`
}

// HasAction reports whether at least one action carries text.
func (w WeekPlan) HasAction() bool {
	for _, a := range w.Actions {
		if a.HasText() {
			return true
		}
	}
	return false
}

// Unfilled reports whether the week has neither an objective nor any action,
// i.e. the program text never populated it.
func (w WeekPlan) Unfilled() bool {
	return strings.TrimSpace(w.ObjectiveWeek) == "" && !w.HasAction()
}

// ActionByID returns the index of the action with the given id, or -1.
func (w WeekPlan) ActionByID(id string) int {
	if id == "" {
		return -1
	}
	for i, a := range w.Actions {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the week.
func (w WeekPlan) Clone() WeekPlan {
	out := w
	if w.Actions != nil {
		out.Actions = append([]Action(nil), w.Actions...)
	}
	if w.MoodScore != nil {
		m := *w.MoodScore
		out.MoodScore = &m
	}
	out.Extra = cloneExtra(w.Extra)
	return out
}

type weekPlanAlias WeekPlan

func (w WeekPlan) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(weekPlanAlias(w), w.Extra)
}

func (w *WeekPlan) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*w = DecodeWeekPlan(raw)
	return nil
}
