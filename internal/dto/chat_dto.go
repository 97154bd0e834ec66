package dto

import "profile-concierge-be/pkg/convo/format"

type ChatRequest struct {
	Role      string `json:"role" validate:"required"`
	Query     string `json:"query" validate:"required,max=2000"`
	SessionId string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type ActionDTO struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type TogglesDTO struct {
	Code    bool              `json:"code"`
	Data    bool              `json:"data"`
	Diagram bool              `json:"diagram"`
	Reasons map[string]string `json:"reasons,omitempty"`
}

type ChatResponse struct {
	SessionId           string                  `json:"session_id"`
	Answer              string                  `json:"answer"`
	Structured          format.StructuredAnswer `json:"structured"`
	ClarificationNeeded bool                    `json:"clarification_needed"`
	QueryType           string                  `json:"query_type"`
	GroundingStatus     string                  `json:"grounding_status"`
	DepthLevel          int                     `json:"depth_level"`
	Layout              string                  `json:"layout"`
	Toggles             TogglesDTO              `json:"toggles"`
	Actions             []ActionDTO             `json:"actions,omitempty"`
	Suggestions         []string                `json:"suggestions,omitempty"`
	FallbackUsed        bool                    `json:"fallback_used"`
	LatencyMs           int64                   `json:"latency_ms"`
}

type HistoryMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SuggestedTopicsResponse struct {
	Topics []string `json:"topics"`
}
