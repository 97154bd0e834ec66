package service

import (
	"context"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/internal/repository/contract"
	"profile-concierge-be/internal/repository/specification"
	"profile-concierge-be/pkg/convo/telemetry"
)

type IAnalyticsService interface {
	RecentInteractions(ctx context.Context, sessionID string, limit, offset int) ([]telemetry.InteractionRecord, int64, error)
	Logs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type analyticsService struct {
	interactions contract.IInteractionRepository
	log          logger.ILogger
}

func NewAnalyticsService(interactions contract.IInteractionRepository, log logger.ILogger) IAnalyticsService {
	return &analyticsService{
		interactions: interactions,
		log:          log,
	}
}

func (s *analyticsService) RecentInteractions(ctx context.Context, sessionID string, limit, offset int) ([]telemetry.InteractionRecord, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if sessionID != "" {
		filter := specification.BySession{SessionID: sessionID}
		specs = append([]specification.Specification{filter}, specs...)
		countSpecs = append(countSpecs, filter)
	}

	records, err := s.interactions.FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.interactions.Count(ctx, countSpecs...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *analyticsService) Logs(level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.log.GetLogs(level, limit, offset)
}
