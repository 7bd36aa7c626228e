package domain

import "strings"

// ActionStatus is the label a coach or learner puts on a single action.
// Any status can follow any other; a closed week is what freezes it.
type ActionStatus string

// Coach-tracking vocabulary (first revision).
const (
	StatusNotStarted ActionStatus = "not_started"
	StatusPartial    ActionStatus = "partial"
	StatusDone       ActionStatus = "done"
)

// Learner-difficulty vocabulary (current revision).
const (
	StatusVeryHard    ActionStatus = "very_hard"
	StatusHard        ActionStatus = "hard"
	StatusWithinReach ActionStatus = "within_reach"
	StatusEasy        ActionStatus = "easy"
	StatusVeryEasy    ActionStatus = "very_easy"
)

// Vocabulary selects which set of action statuses a deployment reads and writes.
type Vocabulary string

const (
	VocabularyTracking   Vocabulary = "tracking"
	VocabularyDifficulty Vocabulary = "difficulty"
)

// DefaultVocabulary is the vocabulary used when none is configured.
const DefaultVocabulary = VocabularyDifficulty

var legacyToDifficulty = map[ActionStatus]ActionStatus{
	StatusNotStarted: StatusVeryHard,
	StatusPartial:    StatusWithinReach,
	StatusDone:       StatusVeryEasy,
}

var statusLabels = map[ActionStatus]string{
	StatusNotStarted:  "🔴 Pas fait",
	StatusPartial:     "🟡 Partiel",
	StatusDone:        "🟢 Fait",
	StatusVeryHard:    "😣 Très difficile",
	StatusHard:        "😕 Difficile",
	StatusWithinReach: "🙂 À ma portée",
	StatusEasy:        "😊 Facile",
	StatusVeryEasy:    "😄 Très facile",
}

// ParseVocabulary maps a configuration value to a Vocabulary.
// Unknown values fall back to DefaultVocabulary.
func ParseVocabulary(raw string) Vocabulary {
	switch Vocabulary(strings.ToLower(strings.TrimSpace(raw))) {
	case VocabularyTracking:
		return VocabularyTracking
	case VocabularyDifficulty:
		return VocabularyDifficulty
	default:
		return DefaultVocabulary
	}
}

// Statuses returns the statuses of the vocabulary in display order.
func (v Vocabulary) Statuses() []ActionStatus {
	if v == VocabularyTracking {
		return []ActionStatus{StatusNotStarted, StatusPartial, StatusDone}
	}
	return []ActionStatus{StatusVeryHard, StatusHard, StatusWithinReach, StatusEasy, StatusVeryEasy}
}

// Default is the neutral status given to new actions and to unreadable values.
func (v Vocabulary) Default() ActionStatus {
	if v == VocabularyTracking {
		return StatusNotStarted
	}
	return StatusWithinReach
}

// DoneSet returns the statuses that count as complete in this vocabulary.
func (v Vocabulary) DoneSet() map[ActionStatus]bool {
	if v == VocabularyTracking {
		return map[ActionStatus]bool{StatusDone: true}
	}
	return map[ActionStatus]bool{StatusEasy: true, StatusVeryEasy: true}
}

// Has reports whether s belongs to the vocabulary.
func (v Vocabulary) Has(s ActionStatus) bool {
	for _, known := range v.Statuses() {
		if known == s {
			return true
		}
	}
	return false
}

// Normalize maps any stored value onto the vocabulary. Legacy tracking values
// are migrated when the vocabulary is difficulty; everything unrecognized
// becomes Default().
func (v Vocabulary) Normalize(raw string) ActionStatus {
	s := ActionStatus(strings.TrimSpace(raw))
	if s == "" {
		return v.Default()
	}
	if v == VocabularyDifficulty {
		return MigrateLegacyStatus(s)
	}
	if v.Has(s) {
		return s
	}
	return v.Default()
}

// MigrateLegacyStatus converts a tracking-vocabulary value into the difficulty
// vocabulary. Values already in the difficulty vocabulary pass through; any
// other value becomes within_reach.
func MigrateLegacyStatus(s ActionStatus) ActionStatus {
	if mapped, ok := legacyToDifficulty[s]; ok {
		return mapped
	}
	if VocabularyDifficulty.Has(s) {
		return s
	}
	return VocabularyDifficulty.Default()
}

// Label returns the human label for a status, or the raw value when unknown.
func (s ActionStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
