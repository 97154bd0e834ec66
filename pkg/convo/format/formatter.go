// FILE: pkg/convo/format/formatter.go
// PURPOSE: Assemble the final structured answer

package format

import (
	"context"
	"fmt"
	"strings"
	"time"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/convo/generate"
	"profile-concierge-be/pkg/livedata"
)

// StructuredAnswer is the final response shape handed to the controller.
type StructuredAnswer struct {
	Takeaway    string       `json:"takeaway"`
	Walkthrough Walkthrough  `json:"walkthrough"`
	Enrichments []Enrichment `json:"enrichments,omitempty"`
	Sources     []Source     `json:"sources,omitempty"`
	WhatsNext   []string     `json:"whats_next"`
}

// Walkthrough is the expandable full answer; Open controls whether the
// client renders it expanded by default.
type Walkthrough struct {
	Open bool   `json:"open"`
	Body string `json:"body"`
}

// Enrichment is one optional block, independently toggle-gated.
// Available=false means the block degraded (e.g. a live fetch failed)
// and Body carries the short unavailable line.
type Enrichment struct {
	Kind      string `json:"kind"` // live_data, code, diagram, rationale, links
	Title     string `json:"title"`
	Body      string `json:"body"`
	Available bool   `json:"available"`
}

// Source points at the corpus material an answer drew from.
type Source struct {
	Section    string `json:"section"`
	DocumentID string `json:"document_id"`
}

// Formatter assembles the structured answer from the draft, execution
// results, and presentation decisions.
type Formatter struct {
	live    livedata.SnapshotFetcher
	log     logger.ILogger
	timeout time.Duration
}

func NewFormatter(live livedata.SnapshotFetcher, log logger.ILogger, timeout time.Duration) *Formatter {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Formatter{live: live, log: log, timeout: timeout}
}

const liveDataUnavailable = "Live activity data is temporarily unavailable."

// Format builds the structured answer and the final rendered text delta.
func (f *Formatter) Format(ctx context.Context, state convo.ConversationState) (StructuredAnswer, convo.Delta) {
	draft := state.Answer
	metadata := make(map[string]interface{})

	var liveBlock *Enrichment
	if state.Toggles.Data || strings.Contains(draft, generate.LiveDataPlaceholder) {
		liveBlock = f.fetchLiveBlock(ctx, metadata)
		draft = strings.ReplaceAll(draft, generate.LiveDataPlaceholder, liveBlock.Body)
	}

	answer := StructuredAnswer{
		Takeaway: takeaway(draft),
		Walkthrough: Walkthrough{
			Open: state.DepthLevel >= 2,
			Body: draft,
		},
		Sources:   sources(state),
		WhatsNext: whatsNext(state),
	}

	if liveBlock != nil {
		answer.Enrichments = append(answer.Enrichments, *liveBlock)
	}
	if state.Toggles.Code {
		answer.Enrichments = append(answer.Enrichments, codeBlock(state))
	}
	if state.Toggles.Diagram {
		answer.Enrichments = append(answer.Enrichments, diagramBlock(state))
	}
	if state.DepthLevel >= 3 {
		answer.Enrichments = append(answer.Enrichments, rationaleBlock(state))
	}

	rendered := render(answer)
	return answer, convo.Delta{
		Answer:   convo.StringPtr(rendered),
		Metadata: metadata,
	}
}

func (f *Formatter) fetchLiveBlock(ctx context.Context, metadata map[string]interface{}) *Enrichment {
	block := &Enrichment{Kind: "live_data", Title: "Live activity"}

	if f.live == nil {
		block.Body = liveDataUnavailable
		return block
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	snapshot, err := f.live.Fetch(fetchCtx)
	if err != nil || snapshot == nil {
		if err != nil {
			metadata["live_data_error"] = err.Error()
			f.log.Warn("format", "live data fetch failed", map[string]interface{}{"error": err.Error()})
		}
		block.Body = liveDataUnavailable
		return block
	}

	block.Available = true
	block.Body = fmt.Sprintf("%d public repos, %d followers, most recent push: %s",
		snapshot.PublicRepos, snapshot.Followers, snapshot.LastPushed)
	return block
}

func codeBlock(state convo.ConversationState) Enrichment {
	block := Enrichment{Kind: "code", Title: "Code excerpt"}

	excerpt := ""
	for _, c := range state.RetrievedChunks {
		if strings.Contains(c.Chunk.Content, "func ") || strings.Contains(c.Chunk.Content, "def ") {
			excerpt = c.Chunk.Content
			break
		}
	}

	if excerpt == "" || !CodeLooksValid(excerpt) {
		block.Body = "I have a code sample for this, but it wouldn't read well out of context. Ask me to walk through the implementation instead."
		return block
	}

	block.Available = true
	block.Body = excerpt
	return block
}

func diagramBlock(state convo.ConversationState) Enrichment {
	return Enrichment{
		Kind:      "diagram",
		Title:     "How it fits together",
		Body:      "question -> intent -> retrieval -> grounding check -> grounded answer",
		Available: true,
	}
}

func rationaleBlock(state convo.ConversationState) Enrichment {
	return Enrichment{
		Kind:      "rationale",
		Title:     "Why this answer",
		Body:      fmt.Sprintf("Grounded in %d profile sections matched against your question.", len(state.RetrievedChunks)),
		Available: true,
	}
}

// takeaway is the first sentence of the draft, capped for skimmability.
func takeaway(draft string) string {
	trimmed := strings.TrimSpace(draft)
	if idx := strings.IndexAny(trimmed, ".!?"); idx > 0 && idx < len(trimmed)-1 {
		trimmed = trimmed[:idx+1]
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:197] + "..."
	}
	return trimmed
}

func sources(state convo.ConversationState) []Source {
	seen := make(map[string]bool)
	var out []Source
	for _, c := range state.RetrievedChunks {
		key := c.Chunk.Section + "/" + c.Chunk.DocumentID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Source{Section: c.Chunk.Section, DocumentID: c.Chunk.DocumentID})
	}
	return out
}

func whatsNext(state convo.ConversationState) []string {
	var out []string

	// Action outcomes lead the list.
	for _, a := range state.PendingActions {
		switch {
		case a.Type == convo.ActionDeliverResume && a.Status == convo.ActionDone:
			out = append(out, "His resume is on its way to your inbox.")
		case a.Type == convo.ActionDeliverResume && a.Status == convo.ActionBlocked:
			out = append(out, "Share an email address and I'll send his resume over.")
		case a.Type == convo.ActionOfferResume && a.Status == convo.ActionDone:
			out = append(out, "Want a copy of his resume? Just ask.")
		}
	}

	switch state.LayoutVariant {
	case convo.LayoutEngineering:
		out = append(out,
			"Ask how the retrieval pipeline handles bad matches.",
			"Ask what the production stack looks like.")
	case convo.LayoutBusiness:
		out = append(out,
			"Ask about the impact of his recent projects.",
			"Ask about his team and leadership experience.")
	default:
		out = append(out,
			"Ask about his career highlights.",
			"Ask what he builds outside of work.")
	}
	return out
}

func render(a StructuredAnswer) string {
	var sb strings.Builder
	sb.WriteString(a.Takeaway)
	if a.Walkthrough.Body != a.Takeaway {
		sb.WriteString("\n\n")
		sb.WriteString(a.Walkthrough.Body)
	}
	for _, e := range a.Enrichments {
		sb.WriteString(fmt.Sprintf("\n\n%s:\n%s", e.Title, e.Body))
	}
	if len(a.Sources) > 0 {
		sb.WriteString("\n\nSources: ")
		parts := make([]string, len(a.Sources))
		for i, s := range a.Sources {
			parts[i] = s.Section
		}
		sb.WriteString(strings.Join(parts, ", "))
	}
	if len(a.WhatsNext) > 0 {
		sb.WriteString("\n\nWhat's next:\n")
		for _, w := range a.WhatsNext {
			sb.WriteString("- " + w + "\n")
		}
	}
	return sb.String()
}
