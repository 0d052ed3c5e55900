package faqstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

func TestMemoryStoreSeedAndList(t *testing.T) {
	store := NewMemoryStore()
	store.Seed([]faq.Record{
		{ID: "b", Question: "second", Answer: "two"},
		{ID: "a", Question: "first", Answer: "one"},
		{Question: "needs an id", Answer: "three"},
	})

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "b", records[0].ID, "seed order must be preserved")
	require.Equal(t, "a", records[1].ID)
	require.NotEmpty(t, records[2].ID, "missing ids are assigned on seed")
}

func TestMemoryStoreGetByID(t *testing.T) {
	store := NewMemoryStore()
	store.Seed([]faq.Record{{ID: "1", Question: "q", Answer: "a", Likes: 2}})

	record, found, err := store.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 2, record.Likes)

	_, found, err = store.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreIncrementUnknownID(t *testing.T) {
	store := NewMemoryStore()
	require.Error(t, store.IncrementVote(context.Background(), "missing", faq.VoteLike))
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	store.Seed([]faq.Record{{ID: "1", Question: "q", Answer: "a"}})

	const voters = 100
	var wg sync.WaitGroup
	wg.Add(voters)
	for i := 0; i < voters; i++ {
		go func() {
			defer wg.Done()
			_ = store.IncrementVote(context.Background(), "1", faq.VoteLike)
		}()
	}
	wg.Wait()

	record, found, err := store.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, voters, record.Likes, "every concurrent increment must be observed")
	require.EqualValues(t, 0, record.Dislikes)
}
