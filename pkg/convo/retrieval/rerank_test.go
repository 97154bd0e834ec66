package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"profile-concierge-be/pkg/store"
)

func chunk(id, section, content string, score float64) store.ScoredChunk {
	return store.ScoredChunk{
		Chunk: store.KnowledgeChunk{ID: id, Section: section, Content: content},
		Score: score,
	}
}

func TestDeduplicateKeepsHighestSimilarityOccurrence(t *testing.T) {
	input := []store.ScoredChunk{
		chunk("a", "career", "He spent four years building backend services at scale for fintech", 0.92),
		chunk("b", "career", "He spent four years building backend services at scale for fintech platforms", 0.85),
		chunk("c", "mma", "Trains BJJ three times a week", 0.70),
	}

	out := Deduplicate(input)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Chunk.ID)
	assert.Equal(t, "c", out[1].Chunk.ID)
}

func TestDeduplicateOutputIsSortedSubset(t *testing.T) {
	input := []store.ScoredChunk{
		chunk("a", "s1", "alpha content", 0.9),
		chunk("b", "s2", "beta content", 0.8),
		chunk("c", "s1", "alpha content", 0.7),
		chunk("d", "s3", "gamma content", 0.6),
	}

	out := Deduplicate(input)
	assert.LessOrEqual(t, len(out), len(input))

	inputIDs := map[string]bool{}
	for _, c := range input {
		inputIDs[c.Chunk.ID] = true
	}
	for i, c := range out {
		assert.True(t, inputIDs[c.Chunk.ID], "output must be a subset of input")
		if i > 0 {
			assert.GreaterOrEqual(t, out[i-1].Score, c.Score, "output must stay sorted descending")
		}
	}
}

func TestDeduplicateNoSharedSignatures(t *testing.T) {
	input := []store.ScoredChunk{
		chunk("a", "s1", "same opening line that goes on for a while with more detail here", 0.9),
		chunk("b", "s1", "same opening line that goes on for a while with more detail here too", 0.8),
		chunk("c", "s2", "same opening line that goes on for a while with more detail here", 0.7),
	}

	out := Deduplicate(input)
	sigs := map[string]bool{}
	for _, c := range out {
		sig := signature(c.Chunk)
		assert.False(t, sigs[sig], "no two outputs may share a signature")
		sigs[sig] = true
	}
	// Different sections survive even with identical content prefixes.
	assert.Len(t, out, 2)
}

func TestDeduplicateSmallInputs(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))

	one := []store.ScoredChunk{chunk("a", "s", "content", 0.5)}
	assert.Equal(t, one, Deduplicate(one))
}
