package service

import (
	"context"

	"github.com/google/uuid"

	"profile-concierge-be/internal/dto"
	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/internal/repository/memory"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/intent"
	"profile-concierge-be/pkg/convo/pipeline"
)

type IConciergeService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, sessionID string) ([]dto.HistoryMessageDTO, error)
	SuggestedTopics() dto.SuggestedTopicsResponse
}

type conciergeService struct {
	pipeline *pipeline.Pipeline
	sessions *memory.SessionRepository
	log      logger.ILogger
}

func NewConciergeService(p *pipeline.Pipeline, sessions *memory.SessionRepository, log logger.ILogger) IConciergeService {
	return &conciergeService{
		pipeline: p,
		sessions: sessions,
		log:      log,
	}
}

// Chat runs one full turn. Session state is loaded before the pipeline
// and saved after, so the pipeline itself stays storage-free.
func (s *conciergeService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := req.SessionId
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sessionMemory := s.sessions.GetMemory(sessionID, req.Role)
	history := s.sessions.GetHistory(sessionID)

	result, err := s.pipeline.Process(ctx, req.Role, req.Query, sessionID, history, sessionMemory)
	if err != nil {
		return nil, err
	}

	s.sessions.AppendHistory(sessionID,
		convo.ChatMessage{Role: "user", Content: req.Query},
		convo.ChatMessage{Role: "assistant", Content: result.Answer},
	)
	s.sessions.SaveMemory(sessionMemory)

	s.log.Info("concierge", "turn completed", map[string]interface{}{
		"session_id": sessionID,
		"query_type": string(result.QueryType),
		"grounding":  string(result.GroundingStatus),
		"latency_ms": result.LatencyMs,
	})

	return s.toResponse(sessionID, result), nil
}

func (s *conciergeService) History(ctx context.Context, sessionID string) ([]dto.HistoryMessageDTO, error) {
	history := s.sessions.GetHistory(sessionID)
	messages := make([]dto.HistoryMessageDTO, 0, len(history))
	for _, msg := range history {
		messages = append(messages, dto.HistoryMessageDTO{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages, nil
}

func (s *conciergeService) SuggestedTopics() dto.SuggestedTopicsResponse {
	return dto.SuggestedTopicsResponse{Topics: intent.SuggestedTopics()}
}

func (s *conciergeService) toResponse(sessionID string, result *pipeline.Result) *dto.ChatResponse {
	actions := make([]dto.ActionDTO, 0, len(result.Actions))
	for _, action := range result.Actions {
		actions = append(actions, dto.ActionDTO{
			Type:   string(action.Type),
			Status: string(action.Status),
			Detail: action.Detail,
		})
	}

	return &dto.ChatResponse{
		SessionId:           sessionID,
		Answer:              result.Answer,
		Structured:          result.Structured,
		ClarificationNeeded: result.ClarificationNeeded,
		QueryType:           string(result.QueryType),
		GroundingStatus:     string(result.GroundingStatus),
		DepthLevel:          result.DepthLevel,
		Layout:              string(result.LayoutVariant),
		Toggles: dto.TogglesDTO{
			Code:    result.Toggles.Code,
			Data:    result.Toggles.Data,
			Diagram: result.Toggles.Diagram,
			Reasons: result.Toggles.Reasons,
		},
		Actions:      actions,
		Suggestions:  result.Suggestions,
		FallbackUsed: result.FallbackUsed,
		LatencyMs:    result.LatencyMs,
	}
}
