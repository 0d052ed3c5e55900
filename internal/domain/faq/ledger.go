package faq

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
	"github.com/yanqian/faq-assistant/pkg/util"
)

// PlaceholderIDPrefix marks client-assigned ids for records the store has not
// persisted yet. The UI may render such a record optimistically before the
// real id exists; votes against it are silently dropped.
const PlaceholderIDPrefix = "temp-"

// Ledger applies like/dislike votes as atomic durable increments.
type Ledger struct {
	store     Store
	publisher VotePublisher
	logger    *slog.Logger
}

// NewLedger wires up the vote ledger.
func NewLedger(store Store, publisher VotePublisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "faq.ledger"),
	}
}

// Vote increments the chosen counter of the target record by exactly 1.
//
// The ledger does not deduplicate repeated votes; replay protection within a
// UI session is the caller's concern. On store failure the error is surfaced
// without retry or compensation.
func (l *Ledger) Vote(ctx context.Context, event VoteEvent) error {
	id := strings.TrimSpace(event.TargetID)
	if id == "" {
		return apperrors.Wrap("invalid_input", "vote target id cannot be empty", nil)
	}
	if !event.Kind.Valid() {
		return apperrors.Wrap("invalid_input", "vote kind must be like or dislike", nil)
	}

	if strings.HasPrefix(id, PlaceholderIDPrefix) {
		l.logger.Debug("ignoring vote on placeholder record", "id", id)
		return nil
	}

	if err := l.store.IncrementVote(ctx, id, event.Kind); err != nil {
		return apperrors.Wrap("ledger_error", "failed to record vote", err)
	}

	if l.publisher != nil {
		event.TargetID = id
		if event.OccurredAt.IsZero() {
			event.OccurredAt = util.NowUTC()
		}
		if err := l.publisher.Publish(ctx, event); err != nil {
			l.logger.Warn("vote event publish failed", "id", id, "error", err)
		}
	}
	return nil
}
