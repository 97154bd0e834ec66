package convo

import (
	"fmt"
	"strings"
)

// Role is the visitor's declared role. The set is closed: every pipeline
// stage switches exhaustively on these values, no ad hoc string matching.
type Role string

const (
	RoleSoftwareDeveloper    Role = "Software Developer"
	RoleHiringManagerTech    Role = "Hiring Manager (technical)"
	RoleHiringManagerNonTech Role = "Hiring Manager (non-technical)"
	RoleRecruiter            Role = "Recruiter"
	RoleCuriousVisitor       Role = "Curious Visitor"
)

// ParseRole maps the upstream role string onto the closed enum.
// Matching is case-insensitive and tolerant of common short forms.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "software developer", "developer", "engineer", "software engineer":
		return RoleSoftwareDeveloper, nil
	case "hiring manager (technical)", "technical hiring manager", "hiring manager technical":
		return RoleHiringManagerTech, nil
	case "hiring manager (non-technical)", "non-technical hiring manager", "hiring manager non-technical":
		return RoleHiringManagerNonTech, nil
	case "recruiter":
		return RoleRecruiter, nil
	case "curious visitor", "visitor", "curious":
		return RoleCuriousVisitor, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// IsTechnical reports whether the role reads engineering-level detail.
func (r Role) IsTechnical() bool {
	return r == RoleSoftwareDeveloper || r == RoleHiringManagerTech
}

// IsBusiness reports whether the role cares about outcomes over mechanics.
func (r Role) IsBusiness() bool {
	return r == RoleHiringManagerNonTech || r == RoleRecruiter
}

// IsHiring reports whether the role is evaluating the owner as a candidate.
func (r Role) IsHiring() bool {
	return r == RoleHiringManagerTech || r == RoleHiringManagerNonTech || r == RoleRecruiter
}

// QueryType classifies what the visitor is asking about.
type QueryType string

const (
	QueryTechnical QueryType = "technical"
	QueryCareer    QueryType = "career"
	QueryData      QueryType = "data"
	QueryMMA       QueryType = "mma"
	QueryFun       QueryType = "fun"
	QueryGeneral   QueryType = "general"
	QueryAmbiguous QueryType = "ambiguous"
)

// GroundingStatus is the retrieval quality gate outcome.
type GroundingStatus string

const (
	GroundingUnset        GroundingStatus = ""
	GroundingOK           GroundingStatus = "ok"
	GroundingNoResults    GroundingStatus = "no_results"
	GroundingInsufficient GroundingStatus = "insufficient"
)

// LayoutVariant selects the response framing.
type LayoutVariant string

const (
	LayoutEngineering LayoutVariant = "engineering"
	LayoutBusiness    LayoutVariant = "business"
	LayoutMixed       LayoutVariant = "mixed"
)

// DisplayToggles are the optional artifact switches decided per turn.
// Reasons records why each enabled toggle fired, keyed by toggle name.
type DisplayToggles struct {
	Code    bool              `json:"code"`
	Data    bool              `json:"data"`
	Diagram bool              `json:"diagram"`
	Reasons map[string]string `json:"reasons,omitempty"`
}

// ChatMessage is one prior turn in the session history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// IntentResult is the classifier's full output for one turn.
type IntentResult struct {
	QueryType                  QueryType
	CodeDisplayRequested       bool
	ImportExplanationRequested bool
	DataDisplayRequested       bool
	TeachingMoment             bool
	CodeWouldHelp              bool
	DataWouldHelp              bool
	ResumeRequested            bool
	IsGreeting                 bool
	IsAmbiguous                bool
	AmbiguousPhrase            string
	ExpandedQuery              string
	VagueQueryExpanded         bool
	NeedsLongerResponse        bool
	HiringSignals              int
	Entities                   map[string]string // company, position, timeline
}

// ActionType tags a planned side effect.
type ActionType string

const (
	ActionDeliverResume ActionType = "deliver_resume"
	ActionOfferResume   ActionType = "offer_resume"
	ActionAlertOwner    ActionType = "alert_owner"
)

// ActionStatus is the executor's per-action outcome.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionDone      ActionStatus = "done"
	ActionSkipped   ActionStatus = "skipped"
	ActionBlocked   ActionStatus = "blocked"
	ActionFailed    ActionStatus = "failed"
	ActionDuplicate ActionStatus = "duplicate"
)

// Action is a planned side effect, created by the planner and consumed by
// the executor within the same turn.
type Action struct {
	Type   ActionType
	Params map[string]string
	Status ActionStatus
	Detail string
}
