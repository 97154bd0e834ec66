package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/pkg/convo"
)

func TestClassifyRejectsMissingInputs(t *testing.T) {
	c := NewClassifier()

	_, err := c.Classify("", convo.RoleSoftwareDeveloper, 0)
	assert.ErrorIs(t, err, convo.ErrValidation)

	_, err = c.Classify("hello", convo.Role(""), 0)
	assert.ErrorIs(t, err, convo.ErrValidation)
}

func TestClassifyGreeting(t *testing.T) {
	c := NewClassifier()

	for _, q := range []string{"hi", "Hello!", "hey there", "Good morning"} {
		result, err := c.Classify(q, convo.RoleCuriousVisitor, 0)
		require.NoError(t, err)
		assert.True(t, result.IsGreeting, "expected greeting for %q", q)
	}

	result, err := c.Classify("hello, can you explain how the retrieval pipeline works in detail?", convo.RoleSoftwareDeveloper, 0)
	require.NoError(t, err)
	assert.False(t, result.IsGreeting)
}

func TestAmbiguityAndExpansionAreMutuallyExclusive(t *testing.T) {
	c := NewClassifier()

	// Every ambiguity catalog phrase sets is_ambiguous and never expands.
	for phrase := range ambiguityCatalog {
		result, err := c.Classify(phrase, convo.RoleHiringManagerTech, 0)
		require.NoError(t, err)
		assert.True(t, result.IsAmbiguous, "phrase %q", phrase)
		assert.False(t, result.VagueQueryExpanded, "phrase %q", phrase)
		assert.Equal(t, convo.QueryAmbiguous, result.QueryType)
	}

	// Every vague-expansion phrase expands and is never ambiguous.
	for phrase := range vagueExpansions {
		result, err := c.Classify(phrase, convo.RoleSoftwareDeveloper, 0)
		require.NoError(t, err)
		assert.False(t, result.IsAmbiguous, "phrase %q", phrase)
		assert.True(t, result.VagueQueryExpanded, "phrase %q", phrase)
	}
}

func TestVagueExpansionProducesLongerQuery(t *testing.T) {
	c := NewClassifier()

	for phrase, expanded := range vagueExpansions {
		result, err := c.Classify(phrase, convo.RoleSoftwareDeveloper, 0)
		require.NoError(t, err)
		assert.Equal(t, expanded, result.ExpandedQuery)
		assert.NotEqual(t, phrase, result.ExpandedQuery)
		assert.Greater(t, len(result.ExpandedQuery), len(phrase))
	}
}

func TestExpansionOnlyForShortQueries(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("tell me all about how golang fits your work", convo.RoleSoftwareDeveloper, 0)
	require.NoError(t, err)
	assert.False(t, result.VagueQueryExpanded)
	assert.Empty(t, result.ExpandedQuery)
}

func TestClassifyQueryTypes(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		query string
		want  convo.QueryType
	}{
		{"How does the retrieval pipeline work?", convo.QueryTechnical},
		{"What companies has he worked at?", convo.QueryCareer},
		{"Show me his github stats", convo.QueryData},
		{"Does he still train MMA?", convo.QueryMMA},
		{"What are his hobbies outside of work?", convo.QueryFun},
		{"Is he a nice person?", convo.QueryGeneral},
	}

	for _, tc := range cases {
		result, err := c.Classify(tc.query, convo.RoleCuriousVisitor, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.QueryType, "query %q", tc.query)
	}
}

func TestScenarioTechnicalWalkthrough(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("How does the retrieval pipeline work?", convo.RoleSoftwareDeveloper, 0)
	require.NoError(t, err)
	assert.Equal(t, convo.QueryTechnical, result.QueryType)
	assert.True(t, result.TeachingMoment)
	assert.True(t, result.CodeWouldHelp)
}

func TestResumeRequestDetection(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("Can I get your resume?", convo.RoleHiringManagerTech, 0)
	require.NoError(t, err)
	assert.True(t, result.ResumeRequested)

	result, err = c.Classify("What does your resume say about leadership?", convo.RoleHiringManagerTech, 0)
	require.NoError(t, err)
	assert.False(t, result.ResumeRequested)
}

func TestHiringSignalCounting(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("We are looking to fill an open position on our team", convo.RoleRecruiter, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.HiringSignals, 2)

	result, err = c.Classify("What music does he like?", convo.RoleCuriousVisitor, 0)
	require.NoError(t, err)
	assert.Zero(t, result.HiringSignals)
}

func TestEntityExtraction(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("Would he interview at Acme Corp for a backend engineer role in 2026?", convo.RoleRecruiter, 0)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", result.Entities["company"])
	assert.Equal(t, "backend engineer", result.Entities["position"])
	assert.Equal(t, "in 2026", result.Entities["timeline"])
}

func TestSubTopicsForCatalogPhrase(t *testing.T) {
	topics := SubTopics("engineering")
	assert.Len(t, topics, 3)

	assert.Empty(t, SubTopics("nonexistent"))
}

func TestSuggestedTopicsHasAtLeastThree(t *testing.T) {
	assert.GreaterOrEqual(t, len(SuggestedTopics()), 3)
}
