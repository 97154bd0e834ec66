package format

import "strings"

// minCodeExcerptLen is the shortest excerpt worth rendering; anything
// shorter is more likely a stray fragment than real code.
const minCodeExcerptLen = 40

var structuralKeywords = []string{
	"func ", "package ", "import ", "type ", "return ", "def ", "class ",
	"if ", "for ", ":=", "=>",
}

// metadataLeakPatterns are store internals that must never reach the
// visitor inside a code block.
var metadataLeakPatterns = []string{
	"embedding", "similarity_score", "document_id", "chunk_id", "{{", "}}",
}

// CodeLooksValid is the display gate for code excerpts: minimum length,
// at least one language-structural keyword, and no metadata leakage.
func CodeLooksValid(excerpt string) bool {
	if len(strings.TrimSpace(excerpt)) < minCodeExcerptLen {
		return false
	}

	hasStructure := false
	for _, kw := range structuralKeywords {
		if strings.Contains(excerpt, kw) {
			hasStructure = true
			break
		}
	}
	if !hasStructure {
		return false
	}

	lower := strings.ToLower(excerpt)
	for _, leak := range metadataLeakPatterns {
		if strings.Contains(lower, leak) {
			return false
		}
	}
	return true
}
