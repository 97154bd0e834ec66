package implementation

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"profile-concierge-be/internal/mapper"
	"profile-concierge-be/internal/model"
	"profile-concierge-be/internal/repository/contract"
	"profile-concierge-be/internal/repository/specification"
	"profile-concierge-be/pkg/store"
)

type knowledgeChunkRepository struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeChunkMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.IKnowledgeChunkRepository {
	return &knowledgeChunkRepository{
		db:     db,
		mapper: mapper.NewKnowledgeChunkMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs []specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *knowledgeChunkRepository) Create(ctx context.Context, chunk *store.KnowledgeChunk) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(chunk)).Error
}

func (r *knowledgeChunkRepository) CreateBulk(ctx context.Context, chunks []*store.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeChunk, 0, len(chunks))
	for _, chunk := range chunks {
		models = append(models, r.mapper.ToModel(chunk))
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *knowledgeChunkRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*store.KnowledgeChunk, error) {
	var m model.KnowledgeChunk
	db := applySpecifications(r.db.WithContext(ctx), specs)
	err := db.First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *knowledgeChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.KnowledgeChunk, error) {
	var models []model.KnowledgeChunk
	db := applySpecifications(r.db.WithContext(ctx), specs)
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}
	chunks := make([]*store.KnowledgeChunk, 0, len(models))
	for i := range models {
		chunks = append(chunks, r.mapper.ToEntity(&models[i]))
	}
	return chunks, nil
}

func (r *knowledgeChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	db := applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeChunk{}), specs)
	err := db.Count(&count).Error
	return count, err
}

func (r *knowledgeChunkRepository) DeleteByDocumentId(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&model.KnowledgeChunk{}).Error
}

// SearchSimilar runs cosine similarity inside Postgres via the pgvector
// <=> operator, so ordering and thresholding happen before rows leave
// the database.
func (r *knowledgeChunkRepository) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int, minScore float64) ([]store.ScoredChunk, error) {
	queryVector := pgvector.NewVector(queryEmbedding)

	type result struct {
		model.KnowledgeChunk
		Similarity float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&model.KnowledgeChunk{}).
		Select("knowledge_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, minScore).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]store.ScoredChunk, 0, len(results))
	for i := range results {
		scored = append(scored, store.ScoredChunk{
			Chunk: *r.mapper.ToEntity(&results[i].KnowledgeChunk),
			Score: results[i].Similarity,
		})
	}
	return scored, nil
}

func (r *knowledgeChunkRepository) FetchCandidates(ctx context.Context, limit int) ([]store.KnowledgeChunk, error) {
	var models []model.KnowledgeChunk
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	chunks := make([]store.KnowledgeChunk, 0, len(models))
	for i := range models {
		chunks = append(chunks, *r.mapper.ToEntity(&models[i]))
	}
	return chunks, nil
}
