package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
	"github.com/yanqian/faq-assistant/internal/infra/config"
	"github.com/yanqian/faq-assistant/internal/infra/faqstore"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
)

func TestRouter_AskSuccess(t *testing.T) {
	likes := int64(2)
	dislikes := int64(0)
	resp := faq.AnswerResult{
		Question: "How do I reset my account password",
		Answer:   "Go to settings.",
		ID:       "1",
		Likes:    &likes,
		Dislikes: &dislikes,
		Outcome:  faq.OutcomeAnswered,
	}
	svc := &stubFaqService{
		resolveFn: func(ctx context.Context, req faq.Request) (faq.AnswerResult, error) {
			require.Equal(t, "How do I reset my account password", req.Question)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/faq/ask", `{"question":"How do I reset my account password"}`, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got faq.AnswerResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp.Answer, got.Answer)
	require.Equal(t, resp.ID, got.ID)
	require.EqualValues(t, 2, *got.Likes)
}

func TestRouter_AskValidationError(t *testing.T) {
	svc := &stubFaqService{
		resolveFn: func(ctx context.Context, req faq.Request) (faq.AnswerResult, error) {
			return faq.AnswerResult{}, apperrors.Wrap("invalid_input", "question must be at least 10 characters", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/faq/ask", `{"question":"short"}`, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "at least 10 characters")
}

func TestRouter_AskGenerationFailure(t *testing.T) {
	svc := &stubFaqService{
		resolveFn: func(ctx context.Context, req faq.Request) (faq.AnswerResult, error) {
			return faq.AnswerResult{}, apperrors.Wrap("llm_error", "chatgpt request failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/faq/ask", `{"question":"a perfectly long question"}`, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusBadGateway, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "llm_error", errBody["error"]["code"])
}

func TestRouter_VoteSuccess(t *testing.T) {
	store := faqstore.NewMemoryStore()
	store.Seed([]faq.Record{{ID: "42", Question: "q", Answer: "a"}})

	recorder := performRequest(http.MethodPost, "/api/v1/faq/vote", `{"id":"42","type":"dislike"}`, newRouterUnderTest(t, &stubFaqService{}, store))
	require.Equal(t, http.StatusOK, recorder.Code)

	record, found, err := store.GetByID(context.Background(), "42")
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1, record.Dislikes)
}

func TestRouter_VotePlaceholderSucceedsWithoutStore(t *testing.T) {
	store := faqstore.NewMemoryStore()

	recorder := performRequest(http.MethodPost, "/api/v1/faq/vote", `{"id":"temp-123","type":"like"}`, newRouterUnderTest(t, &stubFaqService{}, store))
	require.Equal(t, http.StatusOK, recorder.Code)

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRouter_VoteUnknownRecordFails(t *testing.T) {
	store := faqstore.NewMemoryStore()

	recorder := performRequest(http.MethodPost, "/api/v1/faq/vote", `{"id":"42","type":"like"}`, newRouterUnderTest(t, &stubFaqService{}, store))
	require.Equal(t, http.StatusBadGateway, recorder.Code)
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "vote_failed", errBody["error"]["code"])
}

func TestRouter_VoteInvalidKind(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/faq/vote", `{"id":"42","type":"meh"}`, newRouterUnderTest(t, &stubFaqService{}, nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_FeedbackSuccess(t *testing.T) {
	svc := &stubFaqService{
		improveFn: func(ctx context.Context, req faq.ImproveRequest) (string, error) {
			require.Equal(t, "too vague", req.Feedback)
			return "A clearer answer.", nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/faq/feedback", `{"question":"q","answer":"a","feedback":"too vague"}`, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "A clearer answer.", got["answer"])
}

func TestRouter_ListFaqs(t *testing.T) {
	svc := &stubFaqService{
		listFn: func(ctx context.Context) ([]faq.Record, error) {
			return []faq.Record{{ID: "1", Question: "q", Answer: "a", Likes: 3}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/faqs", "", newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string][]faq.Record
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got["faqs"], 1)
	require.EqualValues(t, 3, got["faqs"][0].Likes)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc faq.Service, store faq.Store) *http.Server {
	t.Helper()
	if store == nil {
		store = faqstore.NewMemoryStore()
	}
	ledger := faq.NewLedger(store, nil, newTestLogger())
	handler := NewHandler(svc, ledger, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubFaqService struct {
	resolveFn func(ctx context.Context, req faq.Request) (faq.AnswerResult, error)
	improveFn func(ctx context.Context, req faq.ImproveRequest) (string, error)
	listFn    func(ctx context.Context) ([]faq.Record, error)
}

func (s *stubFaqService) Resolve(ctx context.Context, req faq.Request) (faq.AnswerResult, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, req)
	}
	return faq.AnswerResult{}, nil
}

func (s *stubFaqService) Improve(ctx context.Context, req faq.ImproveRequest) (string, error) {
	if s.improveFn != nil {
		return s.improveFn(ctx, req)
	}
	return "", nil
}

func (s *stubFaqService) List(ctx context.Context) ([]faq.Record, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
