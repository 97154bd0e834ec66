package mapper

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"profile-concierge-be/internal/model"
	"profile-concierge-be/pkg/store"
)

type KnowledgeChunkMapper struct{}

func NewKnowledgeChunkMapper() *KnowledgeChunkMapper {
	return &KnowledgeChunkMapper{}
}

func (m *KnowledgeChunkMapper) ToEntity(c *model.KnowledgeChunk) *store.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &store.KnowledgeChunk{
		ID:         c.Id.String(),
		DocumentID: c.DocumentId,
		Section:    c.Section,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
	}
}

func (m *KnowledgeChunkMapper) ToModel(c *store.KnowledgeChunk) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}
	id, err := uuid.Parse(c.ID)
	if err != nil {
		id = uuid.New()
	}
	return &model.KnowledgeChunk{
		Id:         id,
		DocumentId: c.DocumentID,
		Section:    c.Section,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
	}
}
