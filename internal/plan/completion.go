package plan

import (
	"math"
	"strings"

	"everskills/coaching-app/internal/domain"
)

// Progress summarizes the actions of a week or a campaign.
type Progress struct {
	Done    int     `json:"done" yaml:"done"`
	Total   int     `json:"total" yaml:"total"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Calculator computes completion percentages. An action counts as done
// when its status, read through Vocabulary, is in Done.
type Calculator struct {
	Vocabulary domain.Vocabulary
	Done       map[domain.ActionStatus]bool
}

// NewCalculator uses the vocabulary's done set unless override names at
// least one status.
func NewCalculator(vocab domain.Vocabulary, override []string) Calculator {
	done := map[domain.ActionStatus]bool{}
	for _, s := range override {
		if s = strings.TrimSpace(s); s != "" {
			done[domain.ActionStatus(s)] = true
		}
	}
	if len(done) == 0 {
		done = vocab.DoneSet()
	}
	return Calculator{Vocabulary: vocab, Done: done}
}

func (c Calculator) isDone(s domain.ActionStatus) bool {
	return c.Done[s] || c.Done[c.Vocabulary.Normalize(string(s))]
}

// WeekProgress counts the actions with text and those done.
func (c Calculator) WeekProgress(w domain.WeekPlan) Progress {
	var p Progress
	for _, a := range w.Actions {
		if !a.HasText() {
			continue
		}
		p.Total++
		if c.isDone(a.Status) {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = clampPercent(float64(p.Done) / float64(p.Total) * 100)
	}
	return p
}

// WeekCompletion is WeekProgress(w).Percent.
func (c Calculator) WeekCompletion(w domain.WeekPlan) float64 {
	return c.WeekProgress(w).Percent
}

// GlobalCompletion is the mean of the week percentages, so a week with one
// action weighs as much as a week with three. 0 for a campaign without weeks.
func (c Calculator) GlobalCompletion(camp domain.Campaign) float64 {
	if len(camp.WeeklyPlan) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range camp.WeeklyPlan {
		sum += c.WeekCompletion(w)
	}
	return clampPercent(sum / float64(len(camp.WeeklyPlan)))
}

// GlobalProgress pools the action counts of all weeks. Percent is
// GlobalCompletion, not Done/Total.
func (c Calculator) GlobalProgress(camp domain.Campaign) Progress {
	var p Progress
	for _, w := range camp.WeeklyPlan {
		wp := c.WeekProgress(w)
		p.Done += wp.Done
		p.Total += wp.Total
	}
	p.Percent = c.GlobalCompletion(camp)
	return p
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
