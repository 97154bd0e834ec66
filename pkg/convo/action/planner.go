package action

import (
	"profile-concierge-be/pkg/convo"
)

// Planner decides this turn's side effects. The list is rebuilt fresh
// every turn and identical inputs always produce an identical list.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Plan applies the gating policy:
//   - explicit document requests bypass every gate except the monotonic
//     sent flag (a repeat request takes the duplicate-prevented path);
//   - an unsolicited offer needs (hiring signals >= 2 OR depth >= 3), no
//     prior offer, and the document neither sent nor explicitly requested;
//   - the owner alert fires once per session on a strong hiring signal.
func (p *Planner) Plan(state convo.ConversationState) convo.Delta {
	var actions []convo.Action
	metadata := make(map[string]interface{})

	memory := state.Memory

	if state.Intent.ResumeRequested {
		if memory != nil && memory.ResumeSent {
			// Never re-plan a completed send.
			metadata["duplicate_prevented"] = "resume already sent this session"
		} else {
			contact := ""
			if memory != nil {
				contact = memory.ContactEmail
			}
			actions = append(actions, convo.Action{
				Type:   convo.ActionDeliverResume,
				Params: map[string]string{"contact": contact},
				Status: convo.ActionPending,
			})
		}
	}

	if p.shouldOffer(state) {
		actions = append(actions, convo.Action{
			Type:   convo.ActionOfferResume,
			Params: map[string]string{},
			Status: convo.ActionPending,
		})
	}

	if state.Intent.HiringSignals >= 2 && memory != nil && !memory.OwnerAlerted {
		actions = append(actions, convo.Action{
			Type:   convo.ActionAlertOwner,
			Params: map[string]string{},
			Status: convo.ActionPending,
		})
	}

	return convo.Delta{
		Actions:    actions,
		ActionsSet: true,
		Metadata:   metadata,
	}
}

func (p *Planner) shouldOffer(state convo.ConversationState) bool {
	memory := state.Memory
	if memory == nil {
		return false
	}
	if state.Intent.ResumeRequested {
		return false
	}
	if memory.ResumeOffered || memory.ResumeSent {
		return false
	}
	return state.Intent.HiringSignals >= 2 || state.DepthLevel >= 3
}
