// FILE: pkg/convo/intent/classifier.go
// PURPOSE: Deterministic keyword/pattern classification of one turn

package intent

import (
	"regexp"
	"strings"

	"profile-concierge-be/pkg/convo"
)

// Classifier turns a raw query into an IntentResult. Pure keyword and
// pattern matching, no learned model, so identical inputs always classify
// identically.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// fillerPrefixes are stripped before catalog matching so "tell me about
// your experience" still hits the "experience" ambiguity entry.
var fillerPrefixes = []string{
	"tell me about your ",
	"tell me about ",
	"what about your ",
	"what about ",
	"your ",
	"the ",
}

var companyPattern = regexp.MustCompile(`\b(?:at|At) ([A-Z][A-Za-z0-9]+(?: [A-Z][A-Za-z0-9]+)?)`)
var positionPattern = regexp.MustCompile(`(?i)for an? ([a-z ]+?) (?:role|position|opening)`)
var timelinePattern = regexp.MustCompile(`(?i)\b(in \d{4}|since \d{4}|last year|next month|this quarter)\b`)

// Classify produces the intent result for one turn.
func (c *Classifier) Classify(query string, role convo.Role, turnCount int) (convo.IntentResult, error) {
	if strings.TrimSpace(query) == "" || role == "" {
		return convo.IntentResult{}, convo.ErrValidation
	}

	normalized := normalize(query)
	result := convo.IntentResult{
		QueryType: convo.QueryGeneral,
		Entities:  extractEntities(query),
	}

	// Greeting shortcut: a bare greeting skips the whole pipeline.
	if isGreeting(normalized) {
		result.IsGreeting = true
		return result, nil
	}

	// Ambiguity check comes first and is mutually exclusive with vague
	// expansion: a catalog hit must never also expand.
	stripped := stripFiller(normalized)
	if _, ok := ambiguityCatalog[stripped]; ok {
		result.IsAmbiguous = true
		result.AmbiguousPhrase = stripped
		result.QueryType = convo.QueryAmbiguous
		return result, nil
	}

	// Vague expansion: two tokens or fewer with a table hit.
	if len(strings.Fields(normalized)) <= 2 {
		if expanded, ok := vagueExpansions[stripped]; ok {
			result.ExpandedQuery = expanded
			result.VagueQueryExpanded = true
		}
	}

	result.QueryType = classifyType(normalized)

	result.CodeDisplayRequested = containsAny(normalized, codeDisplayKeywords)
	result.ImportExplanationRequested = containsAny(normalized, importExplanationKeywords)
	result.DataDisplayRequested = containsAny(normalized, dataDisplayKeywords)
	result.TeachingMoment = containsAny(normalized, teachingKeywords)
	result.NeedsLongerResponse = containsAny(normalized, longerResponseKeywords)
	result.ResumeRequested = containsAny(normalized, resumeRequestKeywords)

	// Soft helpers: the presentation controller may still veto these.
	result.CodeWouldHelp = result.QueryType == convo.QueryTechnical &&
		containsAny(normalized, []string{"implement", "built", "build", "works", "pipeline", "architecture"})
	result.DataWouldHelp = result.QueryType == convo.QueryData ||
		containsAny(normalized, []string{"impact", "results", "numbers", "metrics"})

	result.HiringSignals = countHiringSignals(normalized, role)

	return result, nil
}

func normalize(query string) string {
	s := strings.ToLower(strings.TrimSpace(query))
	s = strings.Trim(s, "?!. ")
	return s
}

func stripFiller(normalized string) string {
	s := normalized
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	return strings.TrimSpace(s)
}

func isGreeting(normalized string) bool {
	if len(strings.Fields(normalized)) > 3 {
		return false
	}
	for _, g := range greetingPhrases {
		if normalized == g || strings.HasPrefix(normalized, g+" ") {
			return true
		}
	}
	return false
}

func classifyType(normalized string) convo.QueryType {
	switch {
	case containsAny(normalized, mmaKeywords):
		return convo.QueryMMA
	case containsAny(normalized, dataKeywords):
		return convo.QueryData
	case containsAny(normalized, careerKeywords):
		return convo.QueryCareer
	case containsAny(normalized, technicalKeywords):
		return convo.QueryTechnical
	case containsAny(normalized, funKeywords):
		return convo.QueryFun
	default:
		return convo.QueryGeneral
	}
}

func countHiringSignals(normalized string, role convo.Role) int {
	signals := 0
	for _, kw := range hiringSignalKeywords {
		if strings.Contains(normalized, kw) {
			signals++
		}
	}
	// A hiring role asking career questions is itself a weak signal.
	if role.IsHiring() && containsAny(normalized, careerKeywords) {
		signals++
	}
	return signals
}

func extractEntities(query string) map[string]string {
	entities := make(map[string]string)
	if m := companyPattern.FindStringSubmatch(query); len(m) == 2 {
		entities["company"] = m[1]
	}
	if m := positionPattern.FindStringSubmatch(query); len(m) == 2 {
		entities["position"] = strings.TrimSpace(m[1])
	}
	if m := timelinePattern.FindStringSubmatch(query); len(m) == 2 {
		entities["timeline"] = strings.ToLower(m[1])
	}
	return entities
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SubTopics exposes the configured clarification options for a catalog
// phrase. Empty slice when the phrase is unknown.
func SubTopics(phrase string) []string {
	return ambiguityCatalog[phrase]
}

// SuggestedTopics returns corpus topics used by fallback messages. At
// least three, stable order.
func SuggestedTopics() []string {
	return []string{
		"his backend and Go work",
		"the AI retrieval pipeline he built",
		"his career history and roles",
		"his MMA training",
	}
}
