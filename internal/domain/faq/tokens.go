package faq

import (
	tiktoken "github.com/pkoukk/tiktoken-go"
)

// tokenTrimmer bounds tool output to a token budget so a large corpus cannot
// blow up the generation context window.
type tokenTrimmer struct {
	encoding *tiktoken.Tiktoken
	budget   int
}

func newTokenTrimmer(budget int) *tokenTrimmer {
	if budget <= 0 {
		return &tokenTrimmer{}
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// Without an encoding we pass text through untrimmed.
		return &tokenTrimmer{budget: budget}
	}
	return &tokenTrimmer{encoding: enc, budget: budget}
}

func (t *tokenTrimmer) trim(text string) string {
	if t == nil || t.encoding == nil || t.budget <= 0 {
		return text
	}
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= t.budget {
		return text
	}
	return t.encoding.Decode(tokens[:t.budget])
}
