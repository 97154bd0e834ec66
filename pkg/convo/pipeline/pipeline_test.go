package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/action"
	"profile-concierge-be/pkg/convo/format"
	"profile-concierge-be/pkg/convo/generate"
	"profile-concierge-be/pkg/convo/grounding"
	"profile-concierge-be/pkg/convo/retrieval"
	"profile-concierge-be/pkg/convo/telemetry"
	"profile-concierge-be/pkg/embedding"
	"profile-concierge-be/pkg/events"
	"profile-concierge-be/pkg/livedata"
	"profile-concierge-be/pkg/llm"
	"profile-concierge-be/pkg/store"
)

// --- Fakes ---

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

type fakeEmbedder struct{ fail bool }

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.fail {
		return nil, errors.New("embedding down")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}},
	}, nil
}

type fakeSearcher struct {
	scored []store.ScoredChunk
	err    error
}

func (f *fakeSearcher) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int, minScore float64) ([]store.ScoredChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.ScoredChunk
	for _, c := range f.scored {
		if c.Score >= minScore {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSearcher) FetchCandidates(ctx context.Context, limit int) ([]store.KnowledgeChunk, error) {
	return nil, errors.New("no fallback data")
}

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, options...)
}

type fakeLinker struct{}

func (fakeLinker) IssueLink(documentID, recipient string) (string, error) {
	return "https://docs.example.com/documents/" + documentID + "?token=t", nil
}

type fakeMailer struct{ sent []string }

func (f *fakeMailer) SendResume(toEmail, ownerName, downloadLink string) error {
	f.sent = append(f.sent, toEmail)
	return nil
}

type fakeAlerter struct{ published []events.Event }

func (f *fakeAlerter) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

type fakeFlags struct{ set map[string]bool }

func (f *fakeFlags) TrySetFlag(ctx context.Context, sessionID, flag string) (bool, error) {
	if f.set == nil {
		f.set = make(map[string]bool)
	}
	key := sessionID + ":" + flag
	if f.set[key] {
		return false, nil
	}
	f.set[key] = true
	return true, nil
}

type fakeFetcher struct{}

func (fakeFetcher) Fetch(ctx context.Context) (*livedata.Snapshot, error) {
	return &livedata.Snapshot{PublicRepos: 10, Followers: 5, LastPushed: "concierge"}, nil
}

type fakePublisher struct{ published []*message.Message }

func (f *fakePublisher) Publish(topic string, messages ...*message.Message) error {
	f.published = append(f.published, messages...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// --- Harness ---

type harness struct {
	pipeline  *Pipeline
	mailer    *fakeMailer
	alerter   *fakeAlerter
	publisher *fakePublisher
	llm       *fakeLLM
}

func newHarness(scored []store.ScoredChunk, llmProvider *fakeLLM) *harness {
	log := nopLogger{}
	mailer := &fakeMailer{}
	alerter := &fakeAlerter{}
	publisher := &fakePublisher{}

	retriever := retrieval.NewRetriever(&fakeEmbedder{}, &fakeSearcher{scored: scored}, log,
		retrieval.Config{SimilarityFloor: 0.60, TopK: 4, CandidateCap: 500})
	validator := grounding.NewValidator(0.45)
	generator := generate.NewGenerator(llmProvider, log, "Alex", time.Second)
	executor := action.NewExecutor(fakeLinker{}, mailer, alerter, &fakeFlags{}, log, "Alex", "resume")
	formatter := format.NewFormatter(fakeFetcher{}, log, time.Second)
	recorder := telemetry.NewRecorder(publisher, "RECORD_INTERACTION", nil, log)

	return &harness{
		pipeline:  New(retriever, validator, generator, executor, formatter, recorder, log, "Alex"),
		mailer:    mailer,
		alerter:   alerter,
		publisher: publisher,
		llm:       llmProvider,
	}
}

func techChunks() []store.ScoredChunk {
	return []store.ScoredChunk{
		{Chunk: store.KnowledgeChunk{ID: "c1", DocumentID: "d1", Section: "projects",
			Content: "He designed the retrieval pipeline: embed the query, rank chunks by cosine similarity, gate on grounding."}, Score: 0.88},
		{Chunk: store.KnowledgeChunk{ID: "c2", DocumentID: "d1", Section: "projects",
			Content: "The pipeline runs on Go with pgvector for similarity search."}, Score: 0.74},
	}
}

// --- Scenario tests ---

func TestScenarioTechnicalWalkthrough(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{response: "The pipeline embeds your question and ranks profile content by similarity."})

	result, err := h.pipeline.Process(context.Background(),
		"Software Developer", "How does the retrieval pipeline work?", "sess-a", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, convo.QueryTechnical, result.QueryType)
	assert.Equal(t, convo.GroundingOK, result.GroundingStatus)
	assert.GreaterOrEqual(t, result.DepthLevel, 2)
	assert.True(t, result.Toggles.Code)
	assert.NotEmpty(t, result.Structured.Takeaway)
	assert.NotEmpty(t, result.Structured.WhatsNext)
	assert.False(t, result.ClarificationNeeded)
}

func TestScenarioResumeRequestAndDuplicate(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{response: "Happy to share his background."})
	memory := store.NewSessionMemory("sess-b", "Hiring Manager (technical)")
	memory.ContactEmail = "hm@example.com"

	result, err := h.pipeline.Process(context.Background(),
		"Hiring Manager (technical)", "Can I get your resume?", "sess-b", nil, memory)
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, convo.ActionDeliverResume, result.Actions[0].Type)
	assert.Equal(t, convo.ActionDone, result.Actions[0].Status)
	assert.True(t, memory.ResumeSent)
	assert.Equal(t, []string{"hm@example.com"}, h.mailer.sent)

	// Identical second request: duplicate-prevented, no second delivery.
	result, err = h.pipeline.Process(context.Background(),
		"Hiring Manager (technical)", "Can I get your resume?", "sess-b", nil, memory)
	require.NoError(t, err)
	assert.Empty(t, result.Actions)
	assert.Len(t, h.mailer.sent, 1)
}

func TestScenarioInsufficientGroundingHaltsBeforeGeneration(t *testing.T) {
	lowScores := []store.ScoredChunk{
		{Chunk: store.KnowledgeChunk{ID: "c1", Section: "misc", Content: "barely related"}, Score: 0.35},
		{Chunk: store.KnowledgeChunk{ID: "c2", Section: "misc", Content: "loosely related"}, Score: 0.28},
	}
	llmProvider := &fakeLLM{response: "must never be produced"}
	h := newHarness(lowScores, llmProvider)

	// Floor of 0.60 would filter these out entirely; drop it so the
	// chunks reach the grounding gate with their low scores.
	retriever := retrieval.NewRetriever(&fakeEmbedder{}, &fakeSearcher{scored: lowScores}, nopLogger{},
		retrieval.Config{SimilarityFloor: 0.20, TopK: 4, CandidateCap: 500})
	h.pipeline.retriever = retriever

	result, err := h.pipeline.Process(context.Background(),
		"Software Developer", "Tell me about his sailing trophies", "sess-c", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, convo.GroundingInsufficient, result.GroundingStatus)
	assert.True(t, result.ClarificationNeeded)
	assert.Zero(t, llmProvider.calls, "generator must never run on a failed gate")
	assert.GreaterOrEqual(t, len(result.Suggestions), 3)
}

func TestScenarioAmbiguousQueryAsksForClarification(t *testing.T) {
	llmProvider := &fakeLLM{response: "must never be produced"}
	h := newHarness(techChunks(), llmProvider)

	result, err := h.pipeline.Process(context.Background(),
		"Hiring Manager (technical)", "engineering", "sess-d", nil, nil)
	require.NoError(t, err)

	assert.True(t, result.ClarificationNeeded)
	assert.Equal(t, convo.QueryAmbiguous, result.QueryType)
	assert.Contains(t, result.Answer, "backend systems")
	assert.Zero(t, llmProvider.calls)
	assert.Equal(t, convo.GroundingUnset, result.GroundingStatus, "retrieval never ran")
}

func TestGreetingShortcut(t *testing.T) {
	llmProvider := &fakeLLM{response: "unused"}
	h := newHarness(techChunks(), llmProvider)

	result, err := h.pipeline.Process(context.Background(),
		"Curious Visitor", "hello", "sess-e", nil, nil)
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "concierge")
	assert.Zero(t, llmProvider.calls)
	assert.Equal(t, convo.GroundingUnset, result.GroundingStatus)
}

func TestGenerationFailureBecomesApology(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{err: errors.New("model offline")})

	result, err := h.pipeline.Process(context.Background(),
		"Recruiter", "What companies has he worked at?", "sess-f", nil, nil)
	require.NoError(t, err)

	assert.True(t, result.FallbackUsed)
	assert.NotContains(t, result.Answer, "model offline")
	assert.NotEmpty(t, result.Answer)
}

func TestVagueQueryWithEmptyCorpusGetsDeterministicFallback(t *testing.T) {
	h := newHarness(nil, &fakeLLM{response: "unused"})

	result, err := h.pipeline.Process(context.Background(),
		"Software Developer", "golang", "sess-g", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, convo.GroundingNoResults, result.GroundingStatus)
	assert.True(t, result.FallbackUsed)
	assert.Contains(t, result.Answer, "golang")
	assert.Contains(t, result.Answer, "3.")
}

func TestValidationErrors(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{})

	_, err := h.pipeline.Process(context.Background(), "Software Developer", "", "sess", nil, nil)
	assert.ErrorIs(t, err, convo.ErrValidation)

	_, err = h.pipeline.Process(context.Background(), "Space Pirate", "hello", "sess", nil, nil)
	assert.ErrorIs(t, err, convo.ErrValidation)

	_, err = h.pipeline.Process(context.Background(), "Recruiter", "hello", "", nil, nil)
	assert.ErrorIs(t, err, convo.ErrValidation)
}

func TestEveryTurnIsLogged(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{response: "grounded answer"})

	_, err := h.pipeline.Process(context.Background(),
		"Software Developer", "How does the retrieval pipeline work?", "sess-h", nil, nil)
	require.NoError(t, err)
	assert.Len(t, h.publisher.published, 1)

	// Early exits are logged too.
	_, err = h.pipeline.Process(context.Background(),
		"Software Developer", "hello", "sess-h", nil, nil)
	require.NoError(t, err)
	assert.Len(t, h.publisher.published, 2)
}

func TestUnsolicitedOfferOnStrongHiringSignal(t *testing.T) {
	h := newHarness(techChunks(), &fakeLLM{response: "He has led several backend teams."})
	memory := store.NewSessionMemory("sess-i", "Recruiter")

	result, err := h.pipeline.Process(context.Background(),
		"Recruiter", "We are hiring for an open position on our team, tell me about his role history", "sess-i", nil, memory)
	require.NoError(t, err)

	var types []convo.ActionType
	for _, a := range result.Actions {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, convo.ActionOfferResume)
	assert.Contains(t, types, convo.ActionAlertOwner)
	assert.True(t, memory.ResumeOffered)
	assert.True(t, memory.OwnerAlerted)
	assert.Len(t, h.alerter.published, 1)
}
