package notify

import (
	"context"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/repository/journal"
)

// Journal appends alert events to a journal repository.
type Journal struct {
	// repo stores the events.
	repo journal.Repository
}

// NewJournal creates a sink writing to repo.
func NewJournal(repo journal.Repository) *Journal {
	return &Journal{repo: repo}
}

// Notify appends the event, logging failures.
func (j *Journal) Notify(ctx context.Context, event alert.Event) {
	if err := j.repo.Append(ctx, event); err != nil {
		logger.ErrorKV(ctx, "Failed to journal alert event", "event_id", event.ID, "error", err)
	}
}
