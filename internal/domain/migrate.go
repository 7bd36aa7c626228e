package domain

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Keys consumed by DecodeCampaign. Everything else lands in Campaign.Extra.
var campaignKeys = map[string]bool{
	"id": true, "request_id": true, "rid": true, "request": true,
	"learner_email": true, "email": true, "coach_email": true,
	"objective": true, "context": true, "weeks": true, "semaines": true,
	"status": true, "program_text": true, "weekly_init_program_hash": true,
	"weekly_plan": true, "kickoff_message": true, "closure_message": true,
	"supports": true, "support_files": true, "events": true,
	"activated_at": true, "closed_at": true, "created_at": true, "updated_at": true,
}

var weekPlanKeys = map[string]bool{
	"week": true, "objective_week": true, "actions": true,
	"learner_comment": true, "coach_comment": true, "updated_at": true,
	"mood_score": true, "closed": true, "closed_at": true,
}

// DecodeCampaign builds a Campaign from a loosely typed record as found in
// older campaigns.json files: numbers stored as strings, renamed keys, bare
// string actions and so on. It never fails; unreadable values become zero
// values and are later defaulted by the plan normalizer.
func DecodeCampaign(raw map[string]any) Campaign {
	c := Campaign{
		ID:                    firstString(raw, "id"),
		RequestID:             firstString(raw, "request_id", "rid", "request"),
		LearnerEmail:          firstString(raw, "learner_email", "email"),
		CoachEmail:            firstString(raw, "coach_email"),
		Objective:             firstString(raw, "objective"),
		Context:               firstString(raw, "context"),
		Status:                ParseCampaignStatus(firstString(raw, "status")),
		ProgramText:           firstString(raw, "program_text"),
		WeeklyInitProgramHash: firstString(raw, "weekly_init_program_hash"),
		KickoffMessage:        firstString(raw, "kickoff_message"),
		ClosureMessage:        firstString(raw, "closure_message"),
		ActivatedAt:           optionalTime(raw["activated_at"]),
		ClosedAt:              optionalTime(raw["closed_at"]),
	}

	if n, ok := toInt(firstValue(raw, "weeks", "semaines")); ok {
		c.Weeks = n
	}

	c.CreatedAt = toTime(raw["created_at"])
	c.UpdatedAt = toTime(raw["updated_at"])
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	for _, item := range asList(raw["weekly_plan"]) {
		if m, ok := item.(map[string]any); ok {
			c.WeeklyPlan = append(c.WeeklyPlan, DecodeWeekPlan(m))
		}
	}

	supports := asSlice(raw["supports"])
	if len(supports) == 0 {
		supports = asSlice(raw["support_files"])
	}
	for _, s := range supports {
		if sup, ok := decodeSupport(s); ok {
			c.Supports = append(c.Supports, sup)
		}
	}

	for _, item := range asList(raw["events"]) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ev := Event{
			TS:    toTime(m["ts"]),
			Actor: toString(m["actor"]),
			Type:  toString(m["type"]),
		}
		if p, ok := m["payload"].(map[string]any); ok && len(p) > 0 {
			ev.Payload = p
		}
		c.Events = append(c.Events, ev)
	}

	c.Extra = extraFields(raw, campaignKeys)
	return c
}

// DecodeWeekPlan builds a WeekPlan from a loosely typed record.
func DecodeWeekPlan(raw map[string]any) WeekPlan {
	w := WeekPlan{
		ObjectiveWeek:  toString(raw["objective_week"]),
		LearnerComment: toString(raw["learner_comment"]),
		CoachComment:   toString(raw["coach_comment"]),
		UpdatedAt:      toString(raw["updated_at"]),
		Closed:         cast.ToBool(raw["closed"]),
		ClosedAt:       toString(raw["closed_at"]),
	}
	if n, ok := toInt(raw["week"]); ok {
		w.Week = n
	}
	if m, ok := toInt(raw["mood_score"]); ok {
		w.MoodScore = &m
	}
	list := asList(raw["actions"])
	if list != nil {
		w.Actions = make([]Action, 0, len(list))
	}
	for _, a := range list {
		switch v := a.(type) {
		case map[string]any:
			w.Actions = append(w.Actions, Action{
				ID:     strings.TrimSpace(toString(v["id"])),
				Text:   toString(v["text"]),
				Status: ActionStatus(strings.TrimSpace(toString(v["status"]))),
			})
		case string:
			w.Actions = append(w.Actions, Action{Text: v})
		}
	}
	w.Extra = extraFields(raw, weekPlanKeys)
	return w
}

func decodeSupport(v any) (Support, bool) {
	switch s := v.(type) {
	case map[string]any:
		p := strings.TrimSpace(toString(s["path"]))
		if p == "" {
			return Support{}, false
		}
		name := strings.TrimSpace(toString(s["name"]))
		if name == "" {
			name = baseName(p)
		}
		return Support{Name: name, Path: p}, true
	case string:
		p := strings.TrimSpace(s)
		if p == "" {
			return Support{}, false
		}
		return Support{Name: baseName(p), Path: p}, true
	}
	return Support{}, false
}

func baseName(p string) string {
	b := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if b == "." || b == "/" || b == "" {
		return "support"
	}
	return b
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil && strings.TrimSpace(toString(v)) != "" {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	return strings.TrimSpace(toString(firstValue(raw, keys...)))
}

// toInt reads an integer from a JSON number, a numeric string or a float.
// Blank and unparseable values report false.
func toInt(v any) (int, bool) {
	switch s := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		if n, err := s.Int64(); err == nil {
			return int(n), true
		}
		f, err := s.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// toString renders scalars as text; maps and lists become "".
func toString(v any) string {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return cast.ToString(v)
}

func toTime(v any) time.Time {
	if v == nil {
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func optionalTime(v any) *time.Time {
	t := toTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

// asList returns v when it is a JSON array, nil otherwise.
func asList(v any) []any {
	s, _ := v.([]any)
	return s
}

// asSlice wraps a single value into a one-element slice.
func asSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	default:
		return []any{s}
	}
}

func extraFields(raw map[string]any, known map[string]bool) map[string]any {
	var extra map[string]any
	for k, v := range raw {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra
}
