package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/store"
)

func planState(memory *store.SessionMemory) convo.ConversationState {
	return convo.ConversationState{
		Role:      convo.RoleHiringManagerTech,
		SessionID: "s-1",
		Memory:    memory,
	}
}

func actionTypes(actions []convo.Action) []convo.ActionType {
	out := make([]convo.ActionType, len(actions))
	for i, a := range actions {
		out[i] = a.Type
	}
	return out
}

func TestPlanIsDeterministic(t *testing.T) {
	p := NewPlanner()

	state := planState(store.NewSessionMemory("s-1", "Recruiter"))
	state.Intent.HiringSignals = 3
	state.DepthLevel = 2

	first := p.Plan(state)
	second := p.Plan(state)
	assert.Equal(t, actionTypes(first.Actions), actionTypes(second.Actions))
}

func TestExplicitRequestBypassesSignalGate(t *testing.T) {
	p := NewPlanner()

	state := planState(store.NewSessionMemory("s-1", "Hiring Manager (technical)"))
	state.Intent.ResumeRequested = true
	state.Intent.HiringSignals = 0 // below the unsolicited gate
	state.DepthLevel = 1

	delta := p.Plan(state)
	require.Len(t, delta.Actions, 1)
	assert.Equal(t, convo.ActionDeliverResume, delta.Actions[0].Type)
}

func TestUnsolicitedOfferNeedsSignalsOrDepth(t *testing.T) {
	p := NewPlanner()

	memory := store.NewSessionMemory("s-1", "Recruiter")

	// Neither signals nor depth: nothing planned.
	state := planState(memory)
	state.Intent.HiringSignals = 1
	state.DepthLevel = 2
	assert.Empty(t, p.Plan(state).Actions)

	// Two signals suffice.
	state.Intent.HiringSignals = 2
	types := actionTypes(p.Plan(state).Actions)
	assert.Contains(t, types, convo.ActionOfferResume)

	// Depth three alone suffices.
	state.Intent.HiringSignals = 0
	state.DepthLevel = 3
	types = actionTypes(p.Plan(state).Actions)
	assert.Contains(t, types, convo.ActionOfferResume)
}

func TestOfferSuppressedAfterOfferOrSend(t *testing.T) {
	p := NewPlanner()

	offered := store.NewSessionMemory("s-1", "Recruiter")
	offered.ResumeOffered = true
	state := planState(offered)
	state.Intent.HiringSignals = 3
	state.DepthLevel = 3
	assert.NotContains(t, actionTypes(p.Plan(state).Actions), convo.ActionOfferResume)

	sent := store.NewSessionMemory("s-1", "Recruiter")
	sent.ResumeSent = true
	state = planState(sent)
	state.DepthLevel = 3
	assert.NotContains(t, actionTypes(p.Plan(state).Actions), convo.ActionOfferResume)
}

func TestOfferSuppressedWhenExplicitlyRequested(t *testing.T) {
	p := NewPlanner()

	state := planState(store.NewSessionMemory("s-1", "Recruiter"))
	state.Intent.ResumeRequested = true
	state.Intent.HiringSignals = 3
	state.DepthLevel = 3

	types := actionTypes(p.Plan(state).Actions)
	assert.Contains(t, types, convo.ActionDeliverResume)
	assert.NotContains(t, types, convo.ActionOfferResume)
}

func TestSentFlagPreventsReplanning(t *testing.T) {
	p := NewPlanner()

	memory := store.NewSessionMemory("s-1", "Hiring Manager (technical)")
	memory.ResumeSent = true

	state := planState(memory)
	state.Intent.ResumeRequested = true

	delta := p.Plan(state)
	assert.Empty(t, delta.Actions)
	assert.Contains(t, delta.Metadata, "duplicate_prevented")
}

func TestOwnerAlertOncePerSession(t *testing.T) {
	p := NewPlanner()

	memory := store.NewSessionMemory("s-1", "Recruiter")
	state := planState(memory)
	state.Intent.HiringSignals = 2

	assert.Contains(t, actionTypes(p.Plan(state).Actions), convo.ActionAlertOwner)

	memory.OwnerAlerted = true
	assert.NotContains(t, actionTypes(p.Plan(state).Actions), convo.ActionAlertOwner)
}
