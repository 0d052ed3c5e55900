package faq

import (
	"time"

	"github.com/yanqian/faq-assistant/pkg/metrics"
)

// VoteKind identifies which counter a vote targets.
type VoteKind string

const (
	// VoteLike increments the likes counter.
	VoteLike VoteKind = "like"
	// VoteDislike increments the dislikes counter.
	VoteDislike VoteKind = "dislike"
)

// Valid reports whether the kind is one of the two accepted values.
func (k VoteKind) Valid() bool {
	return k == VoteLike || k == VoteDislike
}

// Outcome distinguishes a sourced answer from the model's "nothing matched" reply.
type Outcome string

const (
	// OutcomeAnswered means the model produced an answer; source metadata may
	// still be absent when the record lookup degraded.
	OutcomeAnswered Outcome = "answered"
	// OutcomeNotFound means the model reported no matching source.
	OutcomeNotFound Outcome = "not_found"
)

// Record is a stored question/answer pair with its vote counters. Records are
// owned by the store; the application only mutates them through IncrementVote.
type Record struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
}

// Request encapsulates a user question submitted for resolution.
type Request struct {
	Question string `json:"question"`
}

// AnswerResult is returned to the HTTP transport once per resolved question.
type AnswerResult struct {
	Question   string              `json:"question"`
	Answer     string              `json:"answer"`
	ID         string              `json:"id,omitempty"`
	Likes      *int64              `json:"likes,omitempty"`
	Dislikes   *int64              `json:"dislikes,omitempty"`
	Outcome    Outcome             `json:"outcome"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// VoteEvent is a fire-and-forget vote on a record's counter.
type VoteEvent struct {
	TargetID   string    `json:"targetId"`
	Kind       VoteKind  `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ImproveRequest asks for a revised answer based on user feedback.
type ImproveRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}
