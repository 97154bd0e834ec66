package grounding

import (
	"fmt"
	"strings"

	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/intent"
)

// Validator is the primary hallucination gate. Generation never runs
// unless this stage reports OK (the greeting shortcut excepted).
type Validator struct {
	threshold float64
}

func NewValidator(threshold float64) *Validator {
	if threshold <= 0 {
		threshold = 0.45
	}
	return &Validator{threshold: threshold}
}

// Validate inspects the deduplicated chunks and either passes the turn
// through or halts it with a fallback message and topic suggestions.
func (v *Validator) Validate(state convo.ConversationState) convo.Delta {
	status := v.status(state)

	if status == convo.GroundingOK {
		return convo.Delta{
			GroundingStatus: convo.StatusPtr(status),
		}
	}

	suggestions := intent.SuggestedTopics()
	return convo.Delta{
		GroundingStatus:     convo.StatusPtr(status),
		ClarificationNeeded: convo.BoolPtr(true),
		PipelineHalt:        convo.BoolPtr(true),
		Answer:              convo.StringPtr(fallbackMessage(status, suggestions)),
		Suggestions:         suggestions,
		Metadata: map[string]interface{}{
			"grounding_gate": string(status),
		},
	}
}

func (v *Validator) status(state convo.ConversationState) convo.GroundingStatus {
	if len(state.RetrievedChunks) == 0 {
		return convo.GroundingNoResults
	}
	maxScore := state.RetrievedChunks[0].Score
	for _, c := range state.RetrievedChunks[1:] {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore < v.threshold {
		return convo.GroundingInsufficient
	}
	return convo.GroundingOK
}

func fallbackMessage(status convo.GroundingStatus, suggestions []string) string {
	var sb strings.Builder
	if status == convo.GroundingNoResults {
		sb.WriteString("I couldn't find anything in the profile that matches that question. ")
	} else {
		sb.WriteString("I found some loosely related material, but nothing solid enough to give you a reliable answer. ")
	}
	sb.WriteString("A few things I can definitely help with:\n")
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
	return sb.String()
}
