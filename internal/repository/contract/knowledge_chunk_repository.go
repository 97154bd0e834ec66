package contract

import (
	"context"

	"profile-concierge-be/internal/repository/specification"
	"profile-concierge-be/pkg/store"
)

// IKnowledgeChunkRepository is the vector-corpus store. SearchSimilar and
// FetchCandidates satisfy the retriever's ChunkSearcher contract.
type IKnowledgeChunkRepository interface {
	Create(ctx context.Context, chunk *store.KnowledgeChunk) error
	CreateBulk(ctx context.Context, chunks []*store.KnowledgeChunk) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*store.KnowledgeChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*store.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByDocumentId(ctx context.Context, documentID string) error

	// SearchSimilar ranks chunks by server-side cosine similarity against
	// the query embedding, keeping only rows at or above minScore.
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int, minScore float64) ([]store.ScoredChunk, error)

	// FetchCandidates returns a bounded slice of chunks with their stored
	// embeddings, for client-side scoring when ANN is unavailable.
	FetchCandidates(ctx context.Context, limit int) ([]store.KnowledgeChunk, error)
}
