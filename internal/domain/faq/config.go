package faq

import "time"

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Model             string
	Temperature       float32
	SystemPrompt      string
	MinQuestionLen    int
	FallbackAnswer    string
	GenerationTimeout time.Duration
	MaxToolRounds     int
	ToolTokenBudget   int
}
