package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

type stubPublisher struct {
	events []VoteEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, event VoteEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestVoteIncrementsStore(t *testing.T) {
	store := &stubStore{records: []Record{{ID: "42"}}}
	publisher := &stubPublisher{}
	ledger := NewLedger(store, publisher, newTestLogger())

	require.NoError(t, ledger.Vote(context.Background(), VoteEvent{TargetID: "42", Kind: VoteLike}))
	require.NoError(t, ledger.Vote(context.Background(), VoteEvent{TargetID: "42", Kind: VoteLike}))

	// The ledger never deduplicates; replay guards belong to the caller.
	require.Equal(t, []string{"42:like", "42:like"}, store.increments)
	require.Len(t, publisher.events, 2)
	require.False(t, publisher.events[0].OccurredAt.IsZero())
}

func TestVotePlaceholderIsSilentNoop(t *testing.T) {
	store := &stubStore{}
	publisher := &stubPublisher{}
	ledger := NewLedger(store, publisher, newTestLogger())

	require.NoError(t, ledger.Vote(context.Background(), VoteEvent{TargetID: "temp-123", Kind: VoteLike}))
	require.Empty(t, store.increments, "store must never see placeholder votes")
	require.Empty(t, publisher.events)
}

func TestVoteRejectsBadInput(t *testing.T) {
	ledger := NewLedger(&stubStore{}, &stubPublisher{}, newTestLogger())

	err := ledger.Vote(context.Background(), VoteEvent{TargetID: "", Kind: VoteLike})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	err = ledger.Vote(context.Background(), VoteEvent{TargetID: "42", Kind: VoteKind("shrug")})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestVoteSurfacesStoreFailure(t *testing.T) {
	store := &stubStore{incErr: errors.New("increment failed")}
	publisher := &stubPublisher{}
	ledger := NewLedger(store, publisher, newTestLogger())

	err := ledger.Vote(context.Background(), VoteEvent{TargetID: "42", Kind: VoteDislike})
	require.True(t, apperrors.IsCode(err, "ledger_error"))
	require.Empty(t, publisher.events, "failed increments are never published")
}

func TestVotePublishFailureIsNotSurfaced(t *testing.T) {
	store := &stubStore{records: []Record{{ID: "42"}}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	ledger := NewLedger(store, publisher, newTestLogger())

	require.NoError(t, ledger.Vote(context.Background(), VoteEvent{TargetID: "42", Kind: VoteLike}))
	require.Equal(t, []string{"42:like"}, store.increments)
}
