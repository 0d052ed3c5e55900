package faq

import (
	"context"
	"encoding/json"
	"log/slog"
)

const retrievalToolName = "getRelevantInformation"

// retrievalFailed is handed to the model when the store cannot be read. Like
// the no-match sentinel it is textual content, not an error: the model decides
// what to do with it.
const retrievalFailed = "Failed to retrieve information from the data source."

// ToolFunc executes a tool invocation requested by the model. Implementations
// must be pure and re-entrant: the model may call them zero or more times in
// any order within a single generation.
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Tool describes a capability the model may invoke during generation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Invoke      ToolFunc
}

type retrievalArgs struct {
	Question string `json:"question"`
}

// newRetrievalTool exposes the relevance retriever as a model-invocable tool.
// Every invocation reads the corpus fresh from the store so repeated calls
// stay independent.
func newRetrievalTool(store Store, trimmer *tokenTrimmer, logger *slog.Logger) Tool {
	return Tool{
		Name:        retrievalToolName,
		Description: "Retrieves relevant information from a data source based on the given question.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question to retrieve relevant information for.",
				},
			},
			"required": []string{"question"},
		},
		Invoke: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args retrievalArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				logger.Warn("retrieval tool received malformed arguments", "error", err)
				return retrievalFailed, nil
			}
			corpus, err := store.ListAll(ctx)
			if err != nil {
				logger.Warn("retrieval tool store read failed", "error", err)
				return retrievalFailed, nil
			}
			return trimmer.trim(Retrieve(args.Question, corpus)), nil
		},
	}
}
