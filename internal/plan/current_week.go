package plan

import (
	"time"

	"everskills/coaching-app/internal/domain"
)

// CurrentWeek returns the week a learner is in at now, counting 7-day
// periods from activation (or creation when the campaign was never
// activated). The result stays within 1..c.Weeks.
func CurrentWeek(c domain.Campaign, now time.Time) int {
	weeks := c.Weeks
	if weeks < 1 {
		weeks = 1
	}

	start := c.CreatedAt
	if c.ActivatedAt != nil && !c.ActivatedAt.IsZero() {
		start = *c.ActivatedAt
	}
	if start.IsZero() {
		return 1
	}

	days := int(now.Sub(start) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	wk := 1 + days/7
	if wk > weeks {
		wk = weeks
	}
	return wk
}
