package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CampaignStatus tracks a coaching engagement through its lifecycle.
type CampaignStatus string

const (
	CampaignDraft        CampaignStatus = "draft"
	CampaignProgramReady CampaignStatus = "program_ready" // Coach published the program, learner has not started
	CampaignActive       CampaignStatus = "active"
	CampaignClosed       CampaignStatus = "closed" // Terminal, no more action updates
)

// ParseCampaignStatus maps stored values, including the historical aliases,
// onto the four current statuses.
func ParseCampaignStatus(raw string) CampaignStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "program_ready":
		return CampaignProgramReady
	case "active":
		return CampaignActive
	case "closed", "archived":
		return CampaignClosed
	default: // "draft", "coach_validated", "in_progress", ""
		return CampaignDraft
	}
}

// Support is a document attached by the learner to a request.
// Path is an object key in file storage.
type Support struct {
	Name string `bson:"name" json:"name"`
	Path string `bson:"path" json:"path"`
}

// Event is an append-only audit entry on a campaign.
type Event struct {
	TS      time.Time      `bson:"ts" json:"ts"`
	Actor   string         `bson:"actor" json:"actor"`
	Type    string         `bson:"type" json:"type"`
	Payload map[string]any `bson:"payload,omitempty" json:"payload,omitempty"`
}

// Campaign is one coaching engagement between a learner and a coach.
// It is the only aggregate root: week plans and actions are owned by it.
type Campaign struct {
	ID                    string         `bson:"_id" json:"id"`
	RequestID             string         `bson:"request_id" json:"request_id"`
	LearnerEmail          string         `bson:"learner_email" json:"learner_email"`
	CoachEmail            string         `bson:"coach_email" json:"coach_email"`
	Objective             string         `bson:"objective" json:"objective"`
	Context               string         `bson:"context" json:"context"`
	Weeks                 int            `bson:"weeks" json:"weeks"`
	Status                CampaignStatus `bson:"status" json:"status"`
	ProgramText           string         `bson:"program_text" json:"program_text"`
	WeeklyInitProgramHash string         `bson:"weekly_init_program_hash" json:"weekly_init_program_hash"`
	WeeklyPlan            []WeekPlan     `bson:"weekly_plan" json:"weekly_plan"`
	KickoffMessage        string         `bson:"kickoff_message" json:"kickoff_message"`
	ClosureMessage        string         `bson:"closure_message" json:"closure_message"`
	Supports              []Support      `bson:"supports" json:"supports"`
	Events                []Event        `bson:"events" json:"events"`
	ActivatedAt           *time.Time     `bson:"activated_at,omitempty" json:"activated_at,omitempty"`
	ClosedAt              *time.Time     `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	CreatedAt             time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `bson:"updated_at" json:"updated_at"`

	// Extra holds fields written by other revisions of the app. They are
	// carried through untouched.
	Extra map[string]any `bson:",inline" json:"-"`
}

// IsClosed reports whether the campaign no longer accepts action updates.
func (c *Campaign) IsClosed() bool {
	return c.Status == CampaignClosed
}

// Week returns a pointer to the plan entry for week n, or nil.
func (c *Campaign) Week(n int) *WeekPlan {
	for i := range c.WeeklyPlan {
		if c.WeeklyPlan[i].Week == n {
			return &c.WeeklyPlan[i]
		}
	}
	return nil
}

// AppendEvent records an audit event on the campaign.
func (c *Campaign) AppendEvent(actor, eventType string, payload map[string]any, at time.Time) {
	c.Events = append(c.Events, Event{TS: at.UTC(), Actor: actor, Type: eventType, Payload: payload})
}

// Clone returns a deep copy of the campaign, so callers can mutate the result
// without touching the original slices and maps.
func (c Campaign) Clone() Campaign {
	out := c
	if c.WeeklyPlan != nil {
		out.WeeklyPlan = make([]WeekPlan, len(c.WeeklyPlan))
		for i, w := range c.WeeklyPlan {
			out.WeeklyPlan[i] = w.Clone()
		}
	}
	if c.Supports != nil {
		out.Supports = append([]Support(nil), c.Supports...)
	}
	if c.Events != nil {
		out.Events = append([]Event(nil), c.Events...)
	}
	if c.ActivatedAt != nil {
		t := *c.ActivatedAt
		out.ActivatedAt = &t
	}
	if c.ClosedAt != nil {
		t := *c.ClosedAt
		out.ClosedAt = &t
	}
	out.Extra = cloneExtra(c.Extra)
	return out
}

type campaignAlias Campaign

// MarshalJSON writes the known fields and then any extra fields that do not
// collide with them.
func (c Campaign) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(campaignAlias(c), c.Extra)
}

// UnmarshalJSON accepts every historical shape of a campaign record and
// migrates it into the current schema.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*c = DecodeCampaign(raw)
	return nil
}

func marshalWithExtra(known any, extra map[string]any) ([]byte, error) {
	base, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return base, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, taken := fields[k]; taken {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = b
	}
	return json.Marshal(fields)
}

func decodeObject(data []byte) (map[string]any, error) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func cloneExtra(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
