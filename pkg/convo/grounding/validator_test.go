package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/store"
)

func stateWithScores(scores ...float64) convo.ConversationState {
	var chunks []store.ScoredChunk
	for i, s := range scores {
		chunks = append(chunks, store.ScoredChunk{
			Chunk: store.KnowledgeChunk{ID: string(rune('a' + i)), Content: "content"},
			Score: s,
		})
	}
	return convo.ConversationState{RetrievedChunks: chunks}
}

func TestGroundingTruthTable(t *testing.T) {
	v := NewValidator(0.45)

	cases := []struct {
		name   string
		scores []float64
		want   convo.GroundingStatus
	}{
		{"empty list is no_results", nil, convo.GroundingNoResults},
		{"all below threshold is insufficient", []float64{0.35, 0.28}, convo.GroundingInsufficient},
		{"one above threshold is ok", []float64{0.35, 0.50}, convo.GroundingOK},
		{"exactly at threshold is ok", []float64{0.45}, convo.GroundingOK},
		{"just below threshold is insufficient", []float64{0.4499}, convo.GroundingInsufficient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta := v.Validate(stateWithScores(tc.scores...))
			require.NotNil(t, delta.GroundingStatus)
			assert.Equal(t, tc.want, *delta.GroundingStatus)
		})
	}
}

func TestThresholdMonotonicity(t *testing.T) {
	// Raising the threshold can only move OK to INSUFFICIENT, never back.
	state := stateWithScores(0.55)

	low := NewValidator(0.45).Validate(state)
	high := NewValidator(0.70).Validate(state)

	assert.Equal(t, convo.GroundingOK, *low.GroundingStatus)
	assert.Equal(t, convo.GroundingInsufficient, *high.GroundingStatus)

	// And a status that was already insufficient stays insufficient.
	insufficient := stateWithScores(0.30)
	assert.Equal(t, convo.GroundingInsufficient, *NewValidator(0.45).Validate(insufficient).GroundingStatus)
	assert.Equal(t, convo.GroundingInsufficient, *NewValidator(0.70).Validate(insufficient).GroundingStatus)
}

func TestNonOKStatusHaltsWithSuggestions(t *testing.T) {
	v := NewValidator(0.45)

	delta := v.Validate(stateWithScores(0.35, 0.28))
	require.NotNil(t, delta.PipelineHalt)
	assert.True(t, *delta.PipelineHalt)
	require.NotNil(t, delta.ClarificationNeeded)
	assert.True(t, *delta.ClarificationNeeded)
	require.NotNil(t, delta.Answer)
	assert.GreaterOrEqual(t, len(delta.Suggestions), 3)
	assert.Contains(t, *delta.Answer, "1.")
	assert.Contains(t, *delta.Answer, "3.")
}

func TestOKStatusDoesNotHalt(t *testing.T) {
	v := NewValidator(0.45)

	delta := v.Validate(stateWithScores(0.80))
	assert.Nil(t, delta.PipelineHalt)
	assert.Nil(t, delta.Answer)
}
