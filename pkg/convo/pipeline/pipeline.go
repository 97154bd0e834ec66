// FILE: pkg/convo/pipeline/pipeline.go
// PURPOSE: Orchestrate the twelve-stage conversation pipeline

package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/action"
	"profile-concierge-be/pkg/convo/clarify"
	"profile-concierge-be/pkg/convo/compose"
	"profile-concierge-be/pkg/convo/format"
	"profile-concierge-be/pkg/convo/generate"
	"profile-concierge-be/pkg/convo/grounding"
	"profile-concierge-be/pkg/convo/intent"
	"profile-concierge-be/pkg/convo/presentation"
	"profile-concierge-be/pkg/convo/retrieval"
	"profile-concierge-be/pkg/convo/telemetry"
	"profile-concierge-be/pkg/store"
)

// Pipeline wires the stages in their required order:
// intent -> clarification -> compose -> retrieve -> rerank -> ground ->
// generate -> presentation -> plan -> execute -> format -> log.
// Three early exits: greeting shortcut, clarification, grounding gap.
type Pipeline struct {
	classifier *intent.Classifier
	gate       *clarify.Gate
	composer   *compose.Composer
	retriever  *retrieval.Retriever
	validator  *grounding.Validator
	generator  *generate.Generator
	presenter  *presentation.Controller
	planner    *action.Planner
	executor   *action.Executor
	formatter  *format.Formatter
	recorder   *telemetry.Recorder
	log        logger.ILogger
	ownerName  string
}

func New(
	retriever *retrieval.Retriever,
	validator *grounding.Validator,
	generator *generate.Generator,
	executor *action.Executor,
	formatter *format.Formatter,
	recorder *telemetry.Recorder,
	log logger.ILogger,
	ownerName string,
) *Pipeline {
	return &Pipeline{
		classifier: intent.NewClassifier(),
		gate:       clarify.NewGate(),
		composer:   compose.NewComposer(),
		retriever:  retriever,
		validator:  validator,
		generator:  generator,
		presenter:  presentation.NewController(),
		planner:    action.NewPlanner(),
		executor:   executor,
		formatter:  formatter,
		recorder:   recorder,
		log:        log,
		ownerName:  ownerName,
	}
}

// Result is what the service layer hands back to the controller.
type Result struct {
	Answer              string
	Structured          format.StructuredAnswer
	ClarificationNeeded bool
	GroundingStatus     convo.GroundingStatus
	QueryType           convo.QueryType
	DepthLevel          int
	LayoutVariant       convo.LayoutVariant
	Toggles             convo.DisplayToggles
	Actions             []convo.Action
	FallbackUsed        bool
	Suggestions         []string
	LatencyMs           int64
}

var contactEmailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Process runs one turn. Only structural misuse (missing role, query, or
// session id) returns an error; every service failure degrades inside.
func (p *Pipeline) Process(ctx context.Context, roleStr, query, sessionID string, history []convo.ChatMessage, memory *store.SessionMemory) (*Result, error) {
	started := time.Now()

	state, err := convo.NewConversationState(roleStr, query, sessionID, history, memory)
	if err != nil {
		return nil, err
	}

	// 1. Intent classification.
	intentResult, err := p.classifier.Classify(state.Query, state.Role, state.TurnCount)
	if err != nil {
		return nil, err
	}
	state = state.Apply(convo.Delta{Intent: &intentResult})

	p.updateMemory(state)

	// Greeting shortcut: no retrieval, no grounding gate.
	if state.Intent.IsGreeting {
		state = state.Apply(convo.Delta{
			Answer:   convo.StringPtr(p.greeting(state.Role)),
			Metadata: map[string]interface{}{"early_exit": "greeting"},
		})
		return p.finish(ctx, state, started, true), nil
	}

	// 2. Clarification gate.
	state = state.Apply(p.gate.Check(state))
	if state.PipelineHalt {
		return p.finish(ctx, state, started, true), nil
	}

	// 3. Query composition.
	state = state.Apply(p.composer.Compose(state))

	// 4. Retrieval.
	state = state.Apply(p.retriever.Retrieve(ctx, state))

	// 5. Re-rank / deduplicate.
	state = state.Apply(convo.Delta{
		Chunks:    retrieval.Deduplicate(state.RetrievedChunks),
		ChunksSet: true,
	})

	// 6. Grounding gate.
	state = state.Apply(p.validator.Validate(state))
	if state.PipelineHalt {
		// A vague-expanded query that retrieved nothing gets the
		// deterministic "be more specific" fallback instead of the
		// generic gap message.
		if state.Intent.VagueQueryExpanded && len(state.RetrievedChunks) == 0 {
			state = state.Apply(convo.Delta{
				Answer:       convo.StringPtr(generate.VagueFallback(state.Query)),
				FallbackUsed: convo.BoolPtr(true),
			})
		}
		return p.finish(ctx, state, started, true), nil
	}

	// 7. Generation. A provider failure becomes a role-appropriate
	// apology here, never a raw error.
	genDelta, err := p.generator.Generate(ctx, state)
	if err != nil {
		state = state.Apply(convo.Delta{
			Answer:       convo.StringPtr(generate.Apology(state.Role)),
			FallbackUsed: convo.BoolPtr(true),
			Metadata:     map[string]interface{}{"generation_error": err.Error()},
		})
		return p.finish(ctx, state, started, false), nil
	}
	state = state.Apply(genDelta)

	// 8. Presentation decisions.
	state = state.Apply(p.presenter.Decide(state))

	// 9. Action planning.
	state = state.Apply(p.planner.Plan(state))

	// 10. Action execution.
	state = state.Apply(p.executor.Execute(ctx, state))

	// 11. Formatting.
	structured, formatDelta := p.formatter.Format(ctx, state)
	state = state.Apply(formatDelta)

	// 12. Telemetry.
	result := p.buildResult(state, started)
	result.Structured = structured
	state = state.Apply(p.recorder.Record(ctx, state, time.Since(started), true))
	return result, nil
}

// finish handles the early exits, which skip formatting but never skip
// telemetry.
func (p *Pipeline) finish(ctx context.Context, state convo.ConversationState, started time.Time, success bool) *Result {
	result := p.buildResult(state, started)
	result.Structured = format.StructuredAnswer{
		Takeaway:    state.Answer,
		Walkthrough: format.Walkthrough{Body: state.Answer},
		WhatsNext:   state.Suggestions,
	}
	state = state.Apply(p.recorder.Record(ctx, state, time.Since(started), success))
	return result
}

func (p *Pipeline) buildResult(state convo.ConversationState, started time.Time) *Result {
	return &Result{
		Answer:              state.Answer,
		ClarificationNeeded: state.ClarificationNeeded,
		GroundingStatus:     state.GroundingStatus,
		QueryType:           state.Intent.QueryType,
		DepthLevel:          state.DepthLevel,
		LayoutVariant:       state.LayoutVariant,
		Toggles:             state.Toggles,
		Actions:             state.PendingActions,
		FallbackUsed:        state.FallbackUsed,
		Suggestions:         state.Suggestions,
		LatencyMs:           time.Since(started).Milliseconds(),
	}
}

// updateMemory folds this turn's signals into the cross-turn memory.
// Only appends and monotonic raises, never overwrites.
func (p *Pipeline) updateMemory(state convo.ConversationState) {
	memory := state.Memory
	if memory == nil {
		return
	}
	memory.TurnCount++
	if state.Intent.QueryType != convo.QueryAmbiguous && !state.Intent.IsGreeting {
		memory.RememberTopic(string(state.Intent.QueryType))
	}
	for k, v := range state.Intent.Entities {
		if _, exists := memory.Entities[k]; !exists {
			memory.Entities[k] = v
		}
	}
	memory.HiringSignal += state.Intent.HiringSignals
	if memory.ContactEmail == "" {
		if email := contactEmailPattern.FindString(state.Query); email != "" {
			memory.ContactEmail = email
		}
	}
}

func (p *Pipeline) greeting(role convo.Role) string {
	base := fmt.Sprintf("Hi! I'm %s's profile concierge.", p.ownerName)
	switch {
	case role.IsTechnical():
		return base + " Ask me about his engineering work, the systems he's built, or how any of it works under the hood."
	case role.IsBusiness():
		return base + " Ask me about his experience, his track record, or what it's like to work with him."
	default:
		return base + " Ask me anything about his work, his projects, or what he's into."
	}
}
