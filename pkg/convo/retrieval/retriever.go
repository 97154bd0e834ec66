package retrieval

import (
	"context"
	"math"
	"sort"
	"strings"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/embedding"
	"profile-concierge-be/pkg/store"
)

// ChunkSearcher is the vector store seen from the retriever's side.
type ChunkSearcher interface {
	// SearchSimilar runs server-side cosine similarity, returning chunks
	// ordered by similarity descending, already thresholded.
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int, minScore float64) ([]store.ScoredChunk, error)

	// FetchCandidates returns a bounded set of chunks with stored
	// embeddings for client-side scoring. Fallback path only.
	FetchCandidates(ctx context.Context, limit int) ([]store.KnowledgeChunk, error)
}

// Config carries the retrieval tunables.
type Config struct {
	SimilarityFloor float64
	TopK            int
	CandidateCap    int
}

// Retriever embeds the composed query and ranks corpus chunks against it.
// Server-side ANN is the primary path; bounded-fetch-then-score is kept
// as a fallback for stores without vector indexing.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	searcher ChunkSearcher
	log      logger.ILogger
	cfg      Config
}

func NewRetriever(embedder embedding.EmbeddingProvider, searcher ChunkSearcher, log logger.ILogger, cfg Config) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 4
	}
	if cfg.SimilarityFloor <= 0 {
		cfg.SimilarityFloor = 0.60
	}
	if cfg.CandidateCap <= 0 {
		cfg.CandidateCap = 500
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		log:      log,
		cfg:      cfg,
	}
}

// Retrieve returns the ranked chunks for the turn. Failures never abort:
// the result degrades to an empty list with the error noted in metadata,
// which downstream grounding turns into a no_results halt.
func (r *Retriever) Retrieve(ctx context.Context, state convo.ConversationState) convo.Delta {
	query := state.ComposedQuery
	if query == "" {
		query = state.Query
	}

	resp, err := r.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		r.log.Warn("retrieval", "embedding failed, degrading to empty result", map[string]interface{}{
			"session_id": state.SessionID,
			"error":      err.Error(),
		})
		return convo.Delta{
			ChunksSet: true,
			Metadata:  map[string]interface{}{"retrieval_error": "embedding: " + err.Error()},
		}
	}
	queryVec := resp.Embedding.Values

	// Over-fetch 2x so the role boost has candidates to promote.
	fetchLimit := r.cfg.TopK * 2

	scored, err := r.searcher.SearchSimilar(ctx, queryVec, fetchLimit, r.cfg.SimilarityFloor)
	path := "server_side"
	if err != nil {
		scored, err = r.fallbackScore(ctx, queryVec)
		path = "client_side_fallback"
		if err != nil {
			r.log.Warn("retrieval", "vector store unavailable, degrading to empty result", map[string]interface{}{
				"session_id": state.SessionID,
				"error":      err.Error(),
			})
			return convo.Delta{
				ChunksSet: true,
				Metadata:  map[string]interface{}{"retrieval_error": "store: " + err.Error()},
			}
		}
		if len(scored) > fetchLimit {
			scored = scored[:fetchLimit]
		}
	}

	boosted := applyRoleBoost(scored, state.Role)
	if len(boosted) > r.cfg.TopK {
		boosted = boosted[:r.cfg.TopK]
	}

	return convo.Delta{
		Chunks:    boosted,
		ChunksSet: true,
		Metadata: map[string]interface{}{
			"retrieval_path":       path,
			"retrieval_candidates": len(scored),
		},
	}
}

func (r *Retriever) fallbackScore(ctx context.Context, queryVec []float32) ([]store.ScoredChunk, error) {
	candidates, err := r.searcher.FetchCandidates(ctx, r.cfg.CandidateCap)
	if err != nil {
		return nil, err
	}

	scored := make([]store.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		score := cosineSimilarity(queryVec, c.Embedding)
		if score < r.cfg.SimilarityFloor {
			continue
		}
		scored = append(scored, store.ScoredChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// roleBoostKeywords bias retrieval toward the sections each role reads.
var roleBoostKeywords = map[convo.Role][]string{
	convo.RoleSoftwareDeveloper:    {"architecture", "pipeline", "golang", "go", "code", "implementation", "api"},
	convo.RoleHiringManagerTech:    {"led", "designed", "shipped", "production", "scale", "architecture"},
	convo.RoleHiringManagerNonTech: {"impact", "delivered", "team", "stakeholder", "outcome", "business"},
	convo.RoleRecruiter:            {"experience", "years", "role", "company", "skills", "education"},
	convo.RoleCuriousVisitor:       {"fun", "hobby", "story", "interest", "journey"},
}

// applyRoleBoost nudges similarity by per-role keyword density, re-sorts,
// and returns the adjusted list. Boost is small enough that a strong
// similarity win is never overturned by keyword spam.
func applyRoleBoost(chunks []store.ScoredChunk, role convo.Role) []store.ScoredChunk {
	keywords := roleBoostKeywords[role]
	if len(keywords) == 0 || len(chunks) == 0 {
		return chunks
	}

	boosted := make([]store.ScoredChunk, len(chunks))
	copy(boosted, chunks)

	for i := range boosted {
		content := strings.ToLower(boosted[i].Chunk.Content)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				hits++
			}
		}
		words := len(strings.Fields(content))
		if words == 0 {
			continue
		}
		density := float64(hits) / float64(len(keywords))
		boosted[i].Score += 0.05 * density
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].Score > boosted[j].Score
	})
	return boosted
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
