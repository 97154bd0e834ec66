package presentation

import (
	"profile-concierge-be/pkg/convo"
)

// Controller decides response depth, layout, and artifact toggles.
// Depth only ever rises as rules fire; it is never lowered once raised.
type Controller struct{}

func NewController() *Controller {
	return &Controller{}
}

// Decide evaluates the rule chain in a fixed order and returns the
// presentation delta for the turn.
func (c *Controller) Decide(state convo.ConversationState) convo.Delta {
	depth := 1

	raise := func(to int) {
		if to > depth {
			depth = to
		}
	}

	if state.Role.IsTechnical() {
		raise(2)
	}
	if state.Intent.TeachingMoment {
		raise(3)
	}
	if state.TurnCount >= 2 {
		raise(2)
	}
	if isBusinessIntent(state) {
		raise(2)
	}
	if isEngineeringIntent(state) && state.Intent.NeedsLongerResponse {
		depth = 3 // forced
	}

	layout := layoutFor(state)
	toggles := decideToggles(state, depth)

	return convo.Delta{
		DepthLevel: convo.IntPtr(depth),
		Layout:     convo.LayoutPtr(layout),
		Toggles:    &toggles,
	}
}

func isEngineeringIntent(state convo.ConversationState) bool {
	return state.Intent.QueryType == convo.QueryTechnical
}

func isBusinessIntent(state convo.ConversationState) bool {
	return state.Intent.QueryType == convo.QueryCareer ||
		(state.Role.IsBusiness() && state.Intent.QueryType == convo.QueryData)
}

func layoutFor(state convo.ConversationState) convo.LayoutVariant {
	switch {
	case state.Role.IsTechnical() && isEngineeringIntent(state):
		return convo.LayoutEngineering
	case state.Role.IsBusiness() && !isEngineeringIntent(state):
		return convo.LayoutBusiness
	default:
		return convo.LayoutMixed
	}
}

func decideToggles(state convo.ConversationState, depth int) convo.DisplayToggles {
	toggles := convo.DisplayToggles{Reasons: make(map[string]string)}

	codeSignal := state.Intent.CodeDisplayRequested || state.Intent.CodeWouldHelp
	if depth >= 2 && (isEngineeringIntent(state) || codeSignal) {
		toggles.Code = true
		switch {
		case state.Intent.CodeDisplayRequested:
			toggles.Reasons["code"] = "explicitly requested"
		case isEngineeringIntent(state):
			toggles.Reasons["code"] = "engineering intent at depth >= 2"
		default:
			toggles.Reasons["code"] = "code keywords at depth >= 2"
		}
	}

	if state.Intent.DataDisplayRequested || state.Intent.DataWouldHelp || isBusinessIntent(state) {
		toggles.Data = true
		if state.Intent.DataDisplayRequested {
			toggles.Reasons["data"] = "explicitly requested"
		} else {
			toggles.Reasons["data"] = "data supports the answer"
		}
	}

	if depth >= 2 && !state.Intent.IsGreeting {
		toggles.Diagram = true
		toggles.Reasons["diagram"] = "depth >= 2 on a substantive turn"
	}

	return toggles
}
