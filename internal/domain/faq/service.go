package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/faq-assistant/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/faq-assistant/pkg/errors"
	"github.com/yanqian/faq-assistant/pkg/metrics"
)

// Service exposes the FAQ answering capabilities.
type Service interface {
	Resolve(ctx context.Context, req Request) (AnswerResult, error)
	Improve(ctx context.Context, req ImproveRequest) (string, error)
	List(ctx context.Context) ([]Record, error)
}

// ChatClient is the slice of the ChatGPT client the service depends on.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	store  Store
	client ChatClient
	logger *slog.Logger
	tool   Tool
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, store Store, client ChatClient, logger *slog.Logger) Service {
	log := logger.With("component", "faq.service")
	trimmer := newTokenTrimmer(cfg.ToolTokenBudget)
	return &service{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: log,
		tool:   newRetrievalTool(store, trimmer, log),
	}
}

// modelOutput is the structured shape the system prompt asks the model for.
type modelOutput struct {
	Answer   string `json:"answer"`
	SourceID string `json:"sourceId,omitempty"`
}

func (s *service) Resolve(ctx context.Context, req Request) (AnswerResult, error) {
	question := strings.TrimSpace(req.Question)
	if len([]rune(question)) < s.cfg.MinQuestionLen {
		return AnswerResult{}, apperrors.Wrap("invalid_input", fmt.Sprintf("question must be at least %d characters", s.cfg.MinQuestionLen), nil)
	}

	output, usage, err := s.generate(ctx, question)
	if err != nil {
		return AnswerResult{}, err
	}

	result := AnswerResult{
		Question:   question,
		Answer:     output.Answer,
		Outcome:    OutcomeAnswered,
		TokenUsage: usage,
	}

	if output.SourceID == "" {
		result.Outcome = OutcomeNotFound
		if result.Answer == "" {
			result.Answer = s.cfg.FallbackAnswer
		}
		return result, nil
	}

	record, found, err := s.store.GetByID(ctx, output.SourceID)
	if err != nil {
		// Degrade to the answer alone; the lookup failure is not the caller's problem.
		s.logger.Warn("source lookup failed", "sourceId", output.SourceID, "error", err)
		return result, nil
	}
	if !found {
		s.logger.Warn("source id not present in store", "sourceId", output.SourceID)
		return result, nil
	}

	result.ID = record.ID
	likes, dislikes := record.Likes, record.Dislikes
	result.Likes = &likes
	result.Dislikes = &dislikes
	return result, nil
}

// generate runs the single generation for a resolution: a chat turn that may
// include any number of model-driven tool invocations before the final answer.
func (s *service) generate(ctx context.Context, question string) (modelOutput, *metrics.TokenUsage, error) {
	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}

	messages := []chatgpt.Message{
		{Role: "system", Content: s.cfg.SystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Answer the following question using the relevant information provided by the %s tool. Also provide the ID of the source FAQ that was most relevant to the question.\n\nQuestion: %s", s.tool.Name, question)},
	}
	tools := []chatgpt.Tool{
		{
			Type: "function",
			Function: chatgpt.ToolFunction{
				Name:        s.tool.Name,
				Description: s.tool.Description,
				Parameters:  s.tool.Parameters,
			},
		},
	}

	usage := &metrics.TokenUsage{}
	rounds := s.cfg.MaxToolRounds
	if rounds <= 0 {
		rounds = 4
	}

	for round := 0; round <= rounds; round++ {
		resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
			Model:       s.cfg.Model,
			Messages:    messages,
			Temperature: s.cfg.Temperature,
			Tools:       tools,
		})
		if err != nil {
			return modelOutput{}, nil, apperrors.Wrap("llm_error", "chatgpt request failed", err)
		}
		if len(resp.Choices) == 0 {
			return modelOutput{}, nil, apperrors.Wrap("llm_error", "chatgpt returned no choices", nil)
		}
		usage.Add(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

		message := resp.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			output := parseModelOutput(message.Content)
			if usage.IsZero() {
				return output, nil, nil
			}
			return output, usage, nil
		}

		messages = append(messages, message)
		for _, call := range message.ToolCalls {
			messages = append(messages, chatgpt.Message{
				Role:       "tool",
				Content:    s.invokeTool(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	return modelOutput{}, nil, apperrors.Wrap("llm_error", "tool call rounds exhausted without an answer", nil)
}

func (s *service) invokeTool(ctx context.Context, call chatgpt.ToolCall) string {
	if call.Function.Name != s.tool.Name {
		s.logger.Warn("model requested unknown tool", "tool", call.Function.Name)
		return fmt.Sprintf("unknown tool %q", call.Function.Name)
	}
	content, err := s.tool.Invoke(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		s.logger.Warn("tool invocation failed", "tool", call.Function.Name, "error", err)
		return retrievalFailed
	}
	return content
}

// parseModelOutput decodes the structured answer; content that is not the
// requested JSON shape is treated as plain answer text with no source.
func parseModelOutput(content string) modelOutput {
	sanitized := strings.TrimSpace(content)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(sanitized)

	var output modelOutput
	if err := json.Unmarshal([]byte(sanitized), &output); err != nil || output.Answer == "" {
		return modelOutput{Answer: strings.TrimSpace(content)}
	}
	return output
}

func (s *service) Improve(ctx context.Context, req ImproveRequest) (string, error) {
	feedback := strings.TrimSpace(req.Feedback)
	if feedback == "" {
		return "", apperrors.Wrap("invalid_input", "feedback cannot be empty", nil)
	}

	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}

	messages := []chatgpt.Message{
		{Role: "system", Content: "You revise FAQ answers based on user feedback. Respond with the improved answer text only."},
		{Role: "user", Content: fmt.Sprintf("Question: %s\n\nOriginal answer: %s\n\nUser feedback: %s\n\nProvide an improved answer.", req.Question, req.Answer, feedback)},
	}
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", apperrors.Wrap("llm_error", "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap("llm_error", "chatgpt returned no choices", nil)
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", apperrors.Wrap("llm_error", "chatgpt response empty", nil)
	}
	return answer, nil
}

func (s *service) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "failed to list faqs", err)
	}
	return records, nil
}
