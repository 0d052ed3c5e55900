package faq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRetrievalToolReturnsMatches(t *testing.T) {
	store := &stubStore{records: []Record{
		{ID: "1", Question: "password reset", Answer: "settings"},
	}}
	tool := newRetrievalTool(store, newTokenTrimmer(0), newTestLogger())

	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"question":"password"}`))
	require.NoError(t, err)

	var matches []Record
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	require.Equal(t, "1", matches[0].ID)
}

func TestRetrievalToolHandsSentinelToModel(t *testing.T) {
	tool := newRetrievalTool(&stubStore{}, newTokenTrimmer(0), newTestLogger())

	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"question":"anything"}`))
	require.NoError(t, err)
	require.Equal(t, NoRelevantInformation, out)
}

func TestRetrievalToolDegradesOnStoreFailure(t *testing.T) {
	store := &stubStore{listErr: errors.New("store down")}
	tool := newRetrievalTool(store, newTokenTrimmer(0), newTestLogger())

	// Failures become textual tool output, never errors back to the model loop.
	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"question":"anything"}`))
	require.NoError(t, err)
	require.Equal(t, retrievalFailed, out)
}

func TestRetrievalToolDegradesOnMalformedArguments(t *testing.T) {
	tool := newRetrievalTool(&stubStore{}, newTokenTrimmer(0), newTestLogger())

	out, err := tool.Invoke(context.Background(), json.RawMessage(`not json`))
	require.NoError(t, err)
	require.Equal(t, retrievalFailed, out)
}
