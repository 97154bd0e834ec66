package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
)

// InteractionRecord is the append-only per-turn analytics entity.
type InteractionRecord struct {
	ID              string                 `json:"id"`
	SessionID       string                 `json:"session_id"`
	Role            string                 `json:"role"`
	Query           string                 `json:"query"`
	Answer          string                 `json:"answer"`
	QueryType       string                 `json:"query_type"`
	GroundingStatus string                 `json:"grounding_status"`
	LatencyMs       int64                  `json:"latency_ms"`
	Success         bool                   `json:"success"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// RetrievalRecord captures retrieval quality for one interaction.
type RetrievalRecord struct {
	InteractionID string    `json:"interaction_id"`
	ChunkIDs      []string  `json:"chunk_ids"`
	Scores        []float64 `json:"scores"`
	TopScore      float64   `json:"top_score"`
	Path          string    `json:"path"`
}

// TurnRecord is the bus envelope: one interaction plus its retrieval
// record when retrieval ran.
type TurnRecord struct {
	Interaction InteractionRecord `json:"interaction"`
	Retrieval   *RetrievalRecord  `json:"retrieval,omitempty"`
}

// Sink is the synchronous fallback used when the bus publish fails.
type Sink interface {
	AppendTurn(ctx context.Context, record TurnRecord) error
}

// Recorder is the pipeline's final stage. Strictly best-effort: no
// failure here ever reaches the visitor or aborts the turn.
type Recorder struct {
	publisher message.Publisher
	topic     string
	sink      Sink
	log       logger.ILogger
}

func NewRecorder(publisher message.Publisher, topic string, sink Sink, log logger.ILogger) *Recorder {
	return &Recorder{
		publisher: publisher,
		topic:     topic,
		sink:      sink,
		log:       log,
	}
}

// Record assembles the turn record and hands it to the bus, falling back
// to the direct sink. A metadata note marks total failure.
func (r *Recorder) Record(ctx context.Context, state convo.ConversationState, latency time.Duration, success bool) convo.Delta {
	record := r.build(state, latency, success)

	if r.publish(record) {
		return convo.Delta{Metadata: map[string]interface{}{"logged_at": record.Interaction.CreatedAt}}
	}

	if r.sink != nil {
		if err := r.sink.AppendTurn(ctx, record); err == nil {
			return convo.Delta{Metadata: map[string]interface{}{
				"logged_at":      record.Interaction.CreatedAt,
				"telemetry_path": "direct",
			}}
		}
	}

	r.log.Warn("telemetry", "turn record dropped", map[string]interface{}{
		"session_id": state.SessionID,
	})
	return convo.Delta{Metadata: map[string]interface{}{"logged_at": false}}
}

func (r *Recorder) build(state convo.ConversationState, latency time.Duration, success bool) TurnRecord {
	interaction := InteractionRecord{
		ID:              uuid.NewString(),
		SessionID:       state.SessionID,
		Role:            string(state.Role),
		Query:           state.Query,
		Answer:          state.Answer,
		QueryType:       string(state.Intent.QueryType),
		GroundingStatus: string(state.GroundingStatus),
		LatencyMs:       latency.Milliseconds(),
		Success:         success,
		Metadata:        state.AnalyticsMetadata,
		CreatedAt:       time.Now(),
	}

	record := TurnRecord{Interaction: interaction}

	// One retrieval-quality record iff retrieval actually ran.
	if state.GroundingStatus != convo.GroundingUnset {
		retrieval := &RetrievalRecord{
			InteractionID: interaction.ID,
		}
		for _, c := range state.RetrievedChunks {
			retrieval.ChunkIDs = append(retrieval.ChunkIDs, c.Chunk.ID)
			retrieval.Scores = append(retrieval.Scores, c.Score)
			if c.Score > retrieval.TopScore {
				retrieval.TopScore = c.Score
			}
		}
		if path, ok := state.AnalyticsMetadata["retrieval_path"].(string); ok {
			retrieval.Path = path
		}
		record.Retrieval = retrieval
	}

	return record
}

func (r *Recorder) publish(record TurnRecord) bool {
	if r.publisher == nil {
		return false
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return false
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := r.publisher.Publish(r.topic, msg); err != nil {
		return false
	}
	return true
}
