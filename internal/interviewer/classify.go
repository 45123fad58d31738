package interviewer

import (
	"strings"
	"unicode/utf8"
)

// Answer signals passed to the model as contract input. They are hints for
// question style only and never bypass validation or enforcement.
const (
	SignalConfused = "confused"
	SignalChatty   = "chatty"
	SignalEdgeCase = "edge_case"
)

// edgeCasePhrases mark answers that refuse to engage or redirect toward
// the system rather than the interview.
var edgeCasePhrases = []string{
	"i won't answer",
	"i will not answer",
	"i refuse",
	"rather not answer",
	"are you a bot",
	"are you an ai",
	"you're an ai",
	"you are an ai",
	"ignore previous",
	"ignore your instructions",
	"skip this question",
	"ask me something else",
	"what model are you",
	"change the subject",
}

// ClassifyAnswer deterministically classifies an answer before the model
// sees it. Returns one of the Signal constants or "" for a plain answer.
// Length checks count runes so multi-byte text is measured like ASCII.
func ClassifyAnswer(answer string, chattyThreshold int) string {
	trimmed := strings.TrimSpace(answer)

	if utf8.RuneCountInString(trimmed) < 3 {
		return SignalConfused
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range edgeCasePhrases {
		if strings.Contains(lower, phrase) {
			return SignalEdgeCase
		}
	}

	if utf8.RuneCountInString(trimmed) > chattyThreshold {
		return SignalChatty
	}

	return ""
}
