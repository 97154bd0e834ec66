package retrieval

import (
	"profile-concierge-be/pkg/store"
)

// signaturePrefixLen is how much leading content participates in the
// dedup signature. Overlapping chunks from adjacent sections share their
// opening lines, so a short prefix is enough to catch them.
const signaturePrefixLen = 48

// Deduplicate removes near-duplicate chunks by (section, content-prefix)
// signature, keeping the first (highest-similarity) occurrence. Input is
// assumed sorted descending; output preserves that order and is always a
// subset of the input.
func Deduplicate(chunks []store.ScoredChunk) []store.ScoredChunk {
	if len(chunks) <= 1 {
		return chunks
	}

	seen := make(map[string]bool, len(chunks))
	out := make([]store.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		sig := signature(c.Chunk)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, c)
	}
	return out
}

func signature(c store.KnowledgeChunk) string {
	prefix := c.Content
	if len(prefix) > signaturePrefixLen {
		prefix = prefix[:signaturePrefixLen]
	}
	return c.Section + "\x00" + prefix
}
