package clarify

import (
	"fmt"
	"strings"

	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/intent"
)

// Gate halts the pipeline when the classifier flagged the query as
// ambiguous. Terminal for the turn: no retrieval or generation runs.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// Check returns a halting delta when clarification is needed, or an empty
// delta to let the pipeline continue.
func (g *Gate) Check(state convo.ConversationState) convo.Delta {
	if !state.Intent.IsAmbiguous {
		return convo.Delta{}
	}

	question := buildQuestion(state.Intent.AmbiguousPhrase)

	return convo.Delta{
		ClarificationNeeded: convo.BoolPtr(true),
		PipelineHalt:        convo.BoolPtr(true),
		Answer:              convo.StringPtr(question),
		Metadata: map[string]interface{}{
			"clarification_phrase": state.Intent.AmbiguousPhrase,
		},
	}
}

func buildQuestion(phrase string) string {
	options := intent.SubTopics(phrase)
	if len(options) == 0 {
		return fmt.Sprintf("That's a broad topic. Could you narrow down what part of %q you're curious about?", phrase)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%q covers a lot of ground here. Which of these are you most interested in?\n", phrase))
	for i, opt := range options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, opt))
	}
	return sb.String()
}
