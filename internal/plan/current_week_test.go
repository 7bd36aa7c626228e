package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"everskills/coaching-app/internal/domain"
)

func TestCurrentWeek(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	activated := start.Add(48 * time.Hour)

	tests := []struct {
		name string
		c    domain.Campaign
		now  time.Time
		want int
	}{
		{"no dates", domain.Campaign{Weeks: 4}, start, 1},
		{"first day", domain.Campaign{Weeks: 4, CreatedAt: start}, start, 1},
		{"day six", domain.Campaign{Weeks: 4, CreatedAt: start}, start.Add(6 * 24 * time.Hour), 1},
		{"day seven", domain.Campaign{Weeks: 4, CreatedAt: start}, start.Add(7 * 24 * time.Hour), 2},
		{"past the end", domain.Campaign{Weeks: 4, CreatedAt: start}, start.Add(90 * 24 * time.Hour), 4},
		{"before start", domain.Campaign{Weeks: 4, CreatedAt: start}, start.Add(-72 * time.Hour), 1},
		{"activation wins", domain.Campaign{Weeks: 4, CreatedAt: start, ActivatedAt: &activated}, start.Add(8 * 24 * time.Hour), 1},
		{"no weeks", domain.Campaign{CreatedAt: start}, start.Add(30 * 24 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentWeek(tt.c, tt.now))
		})
	}
}
