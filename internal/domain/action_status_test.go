package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateLegacyStatus(t *testing.T) {
	tests := []struct {
		in   ActionStatus
		want ActionStatus
	}{
		{StatusNotStarted, StatusVeryHard},
		{StatusPartial, StatusWithinReach},
		{StatusDone, StatusVeryEasy},
		{StatusHard, StatusHard},
		{StatusEasy, StatusEasy},
		{"", StatusWithinReach},
		{"terminé", StatusWithinReach},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got := MigrateLegacyStatus(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, VocabularyDifficulty.Has(got))
		})
	}
}

func TestVocabulary_Normalize(t *testing.T) {
	assert.Equal(t, StatusVeryEasy, VocabularyDifficulty.Normalize(" done "))
	assert.Equal(t, StatusWithinReach, VocabularyDifficulty.Normalize(""))
	assert.Equal(t, StatusDone, VocabularyTracking.Normalize("done"))
	assert.Equal(t, StatusNotStarted, VocabularyTracking.Normalize("very_easy"))
	assert.Equal(t, StatusNotStarted, VocabularyTracking.Normalize(""))
}

func TestVocabulary_DoneSet(t *testing.T) {
	assert.Equal(t, map[ActionStatus]bool{StatusDone: true}, VocabularyTracking.DoneSet())
	assert.Equal(t, map[ActionStatus]bool{StatusEasy: true, StatusVeryEasy: true}, VocabularyDifficulty.DoneSet())
}

func TestParseVocabulary(t *testing.T) {
	assert.Equal(t, VocabularyTracking, ParseVocabulary(" Tracking "))
	assert.Equal(t, VocabularyDifficulty, ParseVocabulary("difficulty"))
	assert.Equal(t, DefaultVocabulary, ParseVocabulary("other"))
}

func TestActionStatus_Label(t *testing.T) {
	assert.Equal(t, "🟢 Fait", StatusDone.Label())
	assert.Equal(t, "🙂 À ma portée", StatusWithinReach.Label())
	assert.Equal(t, "custom", ActionStatus("custom").Label())
}
