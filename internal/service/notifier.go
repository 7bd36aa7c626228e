package service

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"
)

// Notification types.
const (
	NotifyRequestSubmitted = "request_submitted"
	NotifyRequestAssigned  = "request_assigned"
	NotifyProgramReady     = "program_ready"
	NotifyProgramUpdated   = "program_updated"
	NotifyProgramValidated = "program_validated"
	NotifyProgramStarted   = "program_started"
	NotifyCoachFeedback    = "coach_feedback"
	NotifyLearnerUpdate    = "learner_update"
	NotifyJournalShared    = "journal_shared"
	NotifyCampaignClosed   = "campaign_closed"
)

// Notification is a message for one recipient. Key identifies the business
// event; a notifier delivers a given non-empty key at most once.
type Notification struct {
	Key     string
	Type    string
	To      string
	Subject string
	Body    string
	Meta    map[string]any
}

// Notifier delivers notifications to users.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier records notifications as structured log entries.
type LogNotifier struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent map[string]bool
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger, sent: map[string]bool{}}
}

func (n *LogNotifier) Notify(ctx context.Context, note Notification) error {
	if note.Key != "" {
		n.mu.Lock()
		dup := n.sent[note.Key]
		n.sent[note.Key] = true
		n.mu.Unlock()
		if dup {
			n.logger.DebugContext(ctx, "notification skipped", "key", note.Key, "to", note.To)
			return nil
		}
	}
	n.logger.InfoContext(ctx, "notification",
		"key", note.Key,
		"type", note.Type,
		"to", note.To,
		"subject", note.Subject,
		"body_chars", utf8.RuneCountInString(note.Body),
	)
	return nil
}

// Sent reports whether key was already delivered.
func (n *LogNotifier) Sent(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[key]
}

// notify sends best-effort: a failing notifier never fails the operation.
func notify(ctx context.Context, n Notifier, logger *slog.Logger, note Notification) {
	if n == nil || note.To == "" {
		return
	}
	if err := n.Notify(ctx, note); err != nil {
		logger.WarnContext(ctx, "notification failed", "key", note.Key, "to", note.To, "error", err)
	}
}
