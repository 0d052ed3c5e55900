package faqstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// ValkeyStore persists FAQ records as one hash per record in a
// Valkey-compatible database. HINCRBY supplies the atomic vote increment.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// ListAll returns the corpus in the order ids were registered.
func (s *ValkeyStore) ListAll(ctx context.Context) ([]faq.Record, error) {
	resp := s.client.Do(ctx, s.client.B().Lrange().Key(s.idsKey()).Start(0).Stop(-1).Build())
	ids, err := resp.AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	records := make([]faq.Record, 0, len(ids))
	for _, id := range ids {
		record, ok, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// GetByID reads a single record hash.
func (s *ValkeyStore) GetByID(ctx context.Context, id string) (faq.Record, bool, error) {
	resp := s.client.Do(ctx, s.client.B().Hgetall().Key(s.recordKey(id)).Build())
	fields, err := resp.AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return faq.Record{}, false, nil
		}
		return faq.Record{}, false, err
	}
	if len(fields) == 0 {
		return faq.Record{}, false, nil
	}
	record := faq.Record{
		ID:       id,
		Question: fields["question"],
		Answer:   fields["answer"],
	}
	record.Likes = parseCounter(fields["likes"])
	record.Dislikes = parseCounter(fields["dislikes"])
	return record, true, nil
}

// IncrementVote applies HINCRBY on the chosen counter field.
func (s *ValkeyStore) IncrementVote(ctx context.Context, id string, kind faq.VoteKind) error {
	field, err := voteColumn(kind)
	if err != nil {
		return err
	}
	exists, err := s.client.Do(ctx, s.client.B().Exists().Key(s.recordKey(id)).Build()).AsInt64()
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("faq %q not found", id)
	}
	return s.client.Do(ctx, s.client.B().Hincrby().Key(s.recordKey(id)).Field(field).Increment(1).Build()).Error()
}

// Seed registers records, assigning their hashes and the id ordering list.
// Existing counters are preserved so reseeding never resets votes.
func (s *ValkeyStore) Seed(ctx context.Context, records []faq.Record) error {
	for _, record := range records {
		if record.ID == "" {
			continue
		}
		exists, err := s.client.Do(ctx, s.client.B().Exists().Key(s.recordKey(record.ID)).Build()).AsInt64()
		if err != nil {
			return err
		}
		cmd := s.client.B().Hset().Key(s.recordKey(record.ID)).
			FieldValue().
			FieldValue("question", record.Question).
			FieldValue("answer", record.Answer)
		if exists == 0 {
			cmd = cmd.
				FieldValue("likes", strconv.FormatInt(record.Likes, 10)).
				FieldValue("dislikes", strconv.FormatInt(record.Dislikes, 10))
		}
		if err := s.client.Do(ctx, cmd.Build()).Error(); err != nil {
			return err
		}
		if exists == 0 {
			if err := s.client.Do(ctx, s.client.B().Rpush().Key(s.idsKey()).Element(record.ID).Build()).Error(); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseCounter(raw string) int64 {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func (s *ValkeyStore) recordKey(id string) string {
	return fmt.Sprintf("%s:rec:%s", s.prefix, id)
}

func (s *ValkeyStore) idsKey() string {
	return fmt.Sprintf("%s:ids", s.prefix)
}

var _ faq.Store = (*ValkeyStore)(nil)
