package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/llm"
	"profile-concierge-be/pkg/store"
)

type fakeLLM struct {
	response string
	err      error
	lastMsgs []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastMsgs = history
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

func groundedState() convo.ConversationState {
	return convo.ConversationState{
		Role:      convo.RoleSoftwareDeveloper,
		Query:     "How does the retrieval pipeline work?",
		SessionID: "s-1",
		RetrievedChunks: []store.ScoredChunk{
			{Chunk: store.KnowledgeChunk{Section: "tech", Content: "The pipeline embeds queries and ranks chunks."}, Score: 0.8},
		},
		GroundingStatus: convo.GroundingOK,
	}
}

func TestGenerateDraftsGroundedAnswer(t *testing.T) {
	provider := &fakeLLM{response: "It embeds the query, then ranks profile chunks by similarity."}
	g := NewGenerator(provider, nopLogger{}, "Alex", time.Second)

	delta, err := g.Generate(context.Background(), groundedState())
	require.NoError(t, err)
	require.NotNil(t, delta.Answer)
	assert.Contains(t, *delta.Answer, "embeds the query")

	// Prompt carries the grounded context and the role.
	prompt := provider.lastMsgs[len(provider.lastMsgs)-1].Content
	assert.Contains(t, prompt, "The pipeline embeds queries")
	assert.Contains(t, prompt, string(convo.RoleSoftwareDeveloper))
}

func TestGenerateReturnsTypedErrorOnProviderFailure(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model offline")}
	g := NewGenerator(provider, nopLogger{}, "Alex", time.Second)

	_, err := g.Generate(context.Background(), groundedState())
	assert.ErrorIs(t, err, convo.ErrServiceUnavailable)
}

func TestGenerateSkipsModelForDataDisplay(t *testing.T) {
	provider := &fakeLLM{response: "should not be used"}
	g := NewGenerator(provider, nopLogger{}, "Alex", time.Second)

	state := groundedState()
	state.Intent.DataDisplayRequested = true

	delta, err := g.Generate(context.Background(), state)
	require.NoError(t, err)
	require.NotNil(t, delta.Answer)
	assert.Equal(t, LiveDataPlaceholder, *delta.Answer)
	assert.Nil(t, provider.lastMsgs)
}

func TestSanitizeStripsArtifacts(t *testing.T) {
	raw := "<|im_start|>Here is the answer. [1] (tech) leaked context line\n[INST] more text"
	clean := Sanitize(raw)
	assert.NotContains(t, clean, "<|")
	assert.NotContains(t, clean, "[INST]")
	assert.NotContains(t, clean, "(tech)")
	assert.Contains(t, clean, "Here is the answer.")
}

func TestVagueFallbackListsAlternatives(t *testing.T) {
	msg := VagueFallback("golang")
	assert.Contains(t, msg, "golang")
	assert.GreaterOrEqual(t, strings.Count(msg, "\n"), 3)
	assert.Contains(t, msg, "3.")
}

func TestApologyByRole(t *testing.T) {
	technical := Apology(convo.RoleSoftwareDeveloper)
	business := Apology(convo.RoleRecruiter)
	assert.NotEqual(t, technical, business)
	assert.NotContains(t, technical, "LLM")
	assert.NotContains(t, business, "LLM")
}

func TestHistoryWindowBoundsPromptHistory(t *testing.T) {
	provider := &fakeLLM{response: "ok"}
	g := NewGenerator(provider, nopLogger{}, "Alex", time.Second)

	state := groundedState()
	for i := 0; i < 20; i++ {
		state.ChatHistory = append(state.ChatHistory, convo.ChatMessage{Role: "user", Content: "older turn"})
	}

	_, err := g.Generate(context.Background(), state)
	require.NoError(t, err)
	// history window + the new prompt message
	assert.Len(t, provider.lastMsgs, historyWindow+1)
}
