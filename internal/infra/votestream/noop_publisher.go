package votestream

import (
	"context"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// NoopPublisher drops vote events. Used when no stream is configured.
type NoopPublisher struct{}

// NewNoopPublisher constructs the publisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish implements faq.VotePublisher.
func (p *NoopPublisher) Publish(context.Context, faq.VoteEvent) error {
	return nil
}

var _ faq.VotePublisher = (*NoopPublisher)(nil)
