package convo

import (
	"profile-concierge-be/pkg/store"
)

// ConversationState is the turn-scoped state threaded through every stage.
// It is exclusively owned by the single pipeline invocation processing the
// turn. Stages never mutate it directly: each stage returns a Delta and the
// pipeline merges it through Apply.
type ConversationState struct {
	Role      Role
	Query     string
	SessionID string

	ChatHistory []ChatMessage
	TurnCount   int

	Intent        IntentResult
	ComposedQuery string

	RetrievedChunks []store.ScoredChunk
	GroundingStatus GroundingStatus

	ClarificationNeeded bool
	PipelineHalt        bool

	PendingActions []Action

	// AnalyticsMetadata is write-only until the telemetry stage reads it.
	AnalyticsMetadata map[string]interface{}

	Memory *store.SessionMemory

	DepthLevel    int
	LayoutVariant LayoutVariant
	Toggles       DisplayToggles

	Answer       string
	FallbackUsed bool
	Suggestions  []string
}

// NewConversationState validates the required inputs and builds a fresh
// turn state. Turn count is taken from session memory before this turn.
func NewConversationState(roleStr, query, sessionID string, history []ChatMessage, memory *store.SessionMemory) (ConversationState, error) {
	if query == "" {
		return ConversationState{}, ErrValidation
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return ConversationState{}, err
	}
	if sessionID == "" {
		return ConversationState{}, ErrValidation
	}
	if memory == nil {
		memory = store.NewSessionMemory(sessionID, string(role))
	}

	return ConversationState{
		Role:              role,
		Query:             query,
		SessionID:         sessionID,
		ChatHistory:       history,
		TurnCount:         memory.TurnCount,
		AnalyticsMetadata: make(map[string]interface{}),
		Memory:            memory,
		DepthLevel:        1,
	}, nil
}

// Delta is a stage's proposed update. Nil pointer fields mean "unchanged";
// slice fields carry an explicit Set flag so an empty result is
// distinguishable from no result.
type Delta struct {
	Intent        *IntentResult
	ComposedQuery *string

	Chunks    []store.ScoredChunk
	ChunksSet bool

	GroundingStatus *GroundingStatus

	ClarificationNeeded *bool
	PipelineHalt        *bool

	Actions    []Action
	ActionsSet bool

	Metadata map[string]interface{}

	DepthLevel *int
	Layout     *LayoutVariant
	Toggles    *DisplayToggles

	Answer       *string
	FallbackUsed *bool
	Suggestions  []string
}

// Apply merges a delta into the state and returns the updated copy.
// The receiver is a value on purpose: the caller's state is untouched.
func (s ConversationState) Apply(d Delta) ConversationState {
	if d.Intent != nil {
		s.Intent = *d.Intent
	}
	if d.ComposedQuery != nil {
		s.ComposedQuery = *d.ComposedQuery
	}
	if d.ChunksSet {
		s.RetrievedChunks = d.Chunks
	}
	if d.GroundingStatus != nil {
		s.GroundingStatus = *d.GroundingStatus
	}
	if d.ClarificationNeeded != nil {
		s.ClarificationNeeded = *d.ClarificationNeeded
	}
	if d.PipelineHalt != nil {
		s.PipelineHalt = *d.PipelineHalt
	}
	if d.ActionsSet {
		s.PendingActions = d.Actions
	}
	if len(d.Metadata) > 0 {
		merged := make(map[string]interface{}, len(s.AnalyticsMetadata)+len(d.Metadata))
		for k, v := range s.AnalyticsMetadata {
			merged[k] = v
		}
		for k, v := range d.Metadata {
			merged[k] = v
		}
		s.AnalyticsMetadata = merged
	}
	if d.DepthLevel != nil {
		s.DepthLevel = *d.DepthLevel
	}
	if d.Layout != nil {
		s.LayoutVariant = *d.Layout
	}
	if d.Toggles != nil {
		s.Toggles = *d.Toggles
	}
	if d.Answer != nil {
		s.Answer = *d.Answer
	}
	if d.FallbackUsed != nil {
		s.FallbackUsed = *d.FallbackUsed
	}
	if d.Suggestions != nil {
		s.Suggestions = d.Suggestions
	}
	return s
}

// Helpers to build pointer fields without clutter at call sites.

func BoolPtr(b bool) *bool                         { return &b }
func IntPtr(i int) *int                            { return &i }
func StringPtr(s string) *string                   { return &s }
func StatusPtr(g GroundingStatus) *GroundingStatus { return &g }
func LayoutPtr(l LayoutVariant) *LayoutVariant     { return &l }
