// FILE: pkg/convo/generate/generator.go
// PURPOSE: Grounded answer drafting against the LLM collaborator

package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/intent"
	"profile-concierge-be/pkg/llm"
)

// LiveDataPlaceholder marks where the formatter substitutes a live data
// snapshot. Generation is skipped entirely for pure data requests.
const LiveDataPlaceholder = "{{LIVE_DATA}}"

// historyWindow bounds how many prior turns reach the prompt.
const historyWindow = 6

// Generator drafts an answer from the grounded context. It never decides
// halts; the grounding gate has already passed when it runs.
type Generator struct {
	provider  llm.LLMProvider
	log       logger.ILogger
	ownerName string
	timeout   time.Duration
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger, ownerName string, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Generator{
		provider:  provider,
		log:       log,
		ownerName: ownerName,
		timeout:   timeout,
	}
}

// Generate produces the draft answer delta. A provider failure is returned
// as an error; the pipeline, not this stage, converts it into a
// role-appropriate apology.
func (g *Generator) Generate(ctx context.Context, state convo.ConversationState) (convo.Delta, error) {
	// Pure data requests skip the model: the formatter fills the
	// placeholder from the live snapshot.
	if state.Intent.DataDisplayRequested {
		return convo.Delta{
			Answer:   convo.StringPtr(LiveDataPlaceholder),
			Metadata: map[string]interface{}{"generation_skipped": "live_data"},
		}, nil
	}

	prompt := g.buildPrompt(state)
	history := g.buildHistory(state)
	messages := append(history, llm.Message{Role: "user", Content: prompt})

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.provider.Chat(callCtx, messages,
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(700),
	)
	if err != nil {
		g.log.Warn("generate", "llm call failed", map[string]interface{}{
			"session_id": state.SessionID,
			"error":      err.Error(),
		})
		return convo.Delta{}, fmt.Errorf("%w: generation: %v", convo.ErrServiceUnavailable, err)
	}

	answer := Sanitize(raw)
	return convo.Delta{
		Answer:   convo.StringPtr(answer),
		Metadata: map[string]interface{}{"generation_chars": len(answer)},
	}, nil
}

func (g *Generator) buildPrompt(state convo.ConversationState) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"You are a concierge answering questions about %s on his behalf. "+
			"Answer ONLY from the profile context below. If the context does not cover "+
			"something, say so instead of guessing.\n\n", g.ownerName))

	sb.WriteString("PROFILE CONTEXT:\n")
	for i, c := range state.RetrievedChunks {
		sb.WriteString(fmt.Sprintf("[%d] (%s) %s\n", i+1, c.Chunk.Section, c.Chunk.Content))
	}

	sb.WriteString(fmt.Sprintf("\nVISITOR ROLE: %s\n", state.Role))
	for _, instruction := range g.extraInstructions(state) {
		sb.WriteString("- " + instruction + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nQUESTION: %s\n", state.Query))
	return sb.String()
}

func (g *Generator) extraInstructions(state convo.ConversationState) []string {
	var out []string
	if state.Role.IsTechnical() {
		out = append(out, "The visitor is technical; concrete engineering detail is welcome.")
	}
	if state.Role.IsBusiness() {
		out = append(out, "Lead with outcomes and impact, not implementation detail.")
	}
	if state.Intent.TeachingMoment {
		out = append(out, "Explain step by step, as if walking a colleague through it.")
	}
	if state.Intent.ImportExplanationRequested {
		out = append(out, "Explain which libraries are used and why.")
	}
	if state.Intent.NeedsLongerResponse {
		out = append(out, "A thorough, detailed answer is expected.")
	}
	return out
}

func (g *Generator) buildHistory(state convo.ConversationState) []llm.Message {
	history := state.ChatHistory
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	messages := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	return messages
}

// artifact patterns occasionally echoed back from the grounded context or
// the model's chat template.
var (
	controlTokenPattern = regexp.MustCompile(`<\|[^|]*\|>`)
	contextTagPattern   = regexp.MustCompile(`\[\d+\] \([^)]*\)\s?`)
	instTagPattern      = regexp.MustCompile(`\[/?INST\]`)
)

// Sanitize strips structural artifacts from the raw model output.
func Sanitize(raw string) string {
	s := controlTokenPattern.ReplaceAllString(raw, "")
	s = contextTagPattern.ReplaceAllString(s, "")
	s = instTagPattern.ReplaceAllString(s, "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// VagueFallback is the deterministic "be more specific" answer used when a
// vague-expanded query still retrieved nothing. Always lists at least
// three concrete alternatives.
func VagueFallback(query string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%q is a bit too broad for me to pull anything specific. Try one of these instead:\n", query))
	for i, s := range intent.SuggestedTopics() {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
	return sb.String()
}

// Apology is the role-appropriate message shown when the generation
// service itself is down. Never names the failing service.
func Apology(role convo.Role) string {
	if role.IsTechnical() {
		return "Sorry - I'm having trouble putting an answer together right now. Give it another try in a moment."
	}
	return "I'm sorry, I can't answer that right now. Please try again shortly."
}
