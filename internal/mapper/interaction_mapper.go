package mapper

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"profile-concierge-be/internal/model"
	"profile-concierge-be/pkg/convo/telemetry"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

// ToModels splits a bus-level turn record into its interaction row and,
// when retrieval ran, its retrieval-quality row.
func (m *InteractionMapper) ToModels(record telemetry.TurnRecord) (*model.Interaction, *model.RetrievalQuality) {
	id, err := uuid.Parse(record.Interaction.ID)
	if err != nil {
		id = uuid.New()
	}

	interaction := &model.Interaction{
		Id:              id,
		SessionId:       record.Interaction.SessionID,
		Role:            record.Interaction.Role,
		Query:           record.Interaction.Query,
		Answer:          record.Interaction.Answer,
		QueryType:       record.Interaction.QueryType,
		GroundingStatus: record.Interaction.GroundingStatus,
		LatencyMs:       record.Interaction.LatencyMs,
		Success:         record.Interaction.Success,
		Metadata:        toJSON(record.Interaction.Metadata),
		CreatedAt:       record.Interaction.CreatedAt,
	}

	if record.Retrieval == nil {
		return interaction, nil
	}

	quality := &model.RetrievalQuality{
		Id:            uuid.New(),
		InteractionId: id,
		ChunkIds:      toJSON(record.Retrieval.ChunkIDs),
		Scores:        toJSON(record.Retrieval.Scores),
		TopScore:      record.Retrieval.TopScore,
		Path:          record.Retrieval.Path,
	}
	return interaction, quality
}

func (m *InteractionMapper) ToRecord(i *model.Interaction) telemetry.InteractionRecord {
	var metadata map[string]interface{}
	if len(i.Metadata) > 0 {
		_ = json.Unmarshal(i.Metadata, &metadata)
	}
	return telemetry.InteractionRecord{
		ID:              i.Id.String(),
		SessionID:       i.SessionId,
		Role:            i.Role,
		Query:           i.Query,
		Answer:          i.Answer,
		QueryType:       i.QueryType,
		GroundingStatus: i.GroundingStatus,
		LatencyMs:       i.LatencyMs,
		Success:         i.Success,
		Metadata:        metadata,
		CreatedAt:       i.CreatedAt,
	}
}

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
