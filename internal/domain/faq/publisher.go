package faq

import "context"

// VotePublisher emits accepted vote events to an external stream. Publishing
// is best-effort: the ledger logs failures but never surfaces them.
type VotePublisher interface {
	Publish(ctx context.Context, event VoteEvent) error
}
