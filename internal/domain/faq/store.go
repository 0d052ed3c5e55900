package faq

import "context"

// Store defines the persistence contract for FAQ records.
//
// IncrementVote must be atomic on the store side: a single increment of the
// chosen counter by exactly 1, never a client-side read-modify-write.
type Store interface {
	ListAll(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, bool, error)
	IncrementVote(ctx context.Context, id string, kind VoteKind) error
}
