package faqstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

// PostgresStore implements faq.Store using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListAll returns the full corpus in insertion order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]faq.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, likes, dislikes
		FROM faqs
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []faq.Record
	for rows.Next() {
		var record faq.Record
		if err := rows.Scan(&record.ID, &record.Question, &record.Answer, &record.Likes, &record.Dislikes); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByID fetches a single record by exact id equality.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (faq.Record, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, likes, dislikes
		FROM faqs
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return faq.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return faq.Record{}, false, rows.Err()
	}
	var record faq.Record
	if err := rows.Scan(&record.ID, &record.Question, &record.Answer, &record.Likes, &record.Dislikes); err != nil {
		return faq.Record{}, false, err
	}
	return record, true, rows.Err()
}

// IncrementVote bumps the chosen counter by 1 in a single statement so the
// database provides the atomicity, not the client.
func (s *PostgresStore) IncrementVote(ctx context.Context, id string, kind faq.VoteKind) error {
	column, err := voteColumn(kind)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE faqs
		SET %s = %s + 1
		WHERE id = $1
	`, column, column), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("faq %q not found", id)
	}
	return nil
}

func voteColumn(kind faq.VoteKind) (string, error) {
	switch kind {
	case faq.VoteLike:
		return "likes", nil
	case faq.VoteDislike:
		return "dislikes", nil
	default:
		return "", fmt.Errorf("unsupported vote kind %q", kind)
	}
}

var _ faq.Store = (*PostgresStore)(nil)
