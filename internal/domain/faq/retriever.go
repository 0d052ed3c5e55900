package faq

import (
	"encoding/json"
	"strings"
)

// NoRelevantInformation is returned to the model when nothing in the corpus
// overlaps with the question. It is plain text on purpose: the model receives
// it as tool output it can reason over instead of an error.
const NoRelevantInformation = "No relevant information found."

// Retrieve filters the corpus down to records sharing at least one token with
// the question and returns them JSON-encoded in corpus order. The matching is
// intentionally naive (no stemming, no ranking, no stop words): it exists to
// hand the model a bounded candidate set, not to replace it.
func Retrieve(question string, corpus []Record) string {
	matches := relevantRecords(question, corpus)
	if len(matches) == 0 {
		return NoRelevantInformation
	}
	payload, err := json.Marshal(matches)
	if err != nil {
		return NoRelevantInformation
	}
	return string(payload)
}

func relevantRecords(question string, corpus []Record) []Record {
	tokens := strings.Fields(strings.ToLower(question))
	if len(tokens) == 0 || len(corpus) == 0 {
		return nil
	}
	var matches []Record
	for _, record := range corpus {
		content := strings.ToLower(record.Question + " " + record.Answer)
		for _, token := range tokens {
			if strings.Contains(content, token) {
				matches = append(matches, record)
				break
			}
		}
	}
	return matches
}
