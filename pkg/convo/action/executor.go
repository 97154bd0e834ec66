package action

import (
	"context"
	"fmt"
	"regexp"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/events"
	"profile-concierge-be/pkg/store"
)

// Collaborator interfaces, defined on the consumer side so the executor
// is testable with small fakes.

// DocumentLinker issues time-limited secure links for private documents.
type DocumentLinker interface {
	IssueLink(documentID, recipient string) (string, error)
}

// Mailer delivers documents over the primary notification channel.
type Mailer interface {
	SendResume(toEmail, ownerName, downloadLink string) error
}

// OwnerAlerter is the secondary, fire-and-forget notification channel.
// Nil or failing alerters never break the conversation.
type OwnerAlerter interface {
	Publish(ctx context.Context, event events.Event) error
}

// FlagStore is the compare-and-set guard over session monotonic flags.
// TrySetFlag returns false when the flag was already set, which makes
// near-concurrent duplicate turns safe.
type FlagStore interface {
	TrySetFlag(ctx context.Context, sessionID, flag string) (bool, error)
}

// Executor performs the planned side effects with per-action isolation:
// one action failing never blocks the others, and no failure reaches the
// visitor as an error.
type Executor struct {
	linker    DocumentLinker
	mailer    Mailer
	alerter   OwnerAlerter
	flags     FlagStore
	log       logger.ILogger
	ownerName string
	resumeDoc string
}

func NewExecutor(linker DocumentLinker, mailer Mailer, alerter OwnerAlerter, flags FlagStore, log logger.ILogger, ownerName, resumeDoc string) *Executor {
	return &Executor{
		linker:    linker,
		mailer:    mailer,
		alerter:   alerter,
		flags:     flags,
		log:       log,
		ownerName: ownerName,
		resumeDoc: resumeDoc,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Execute runs the pending actions sequentially (order matters for the
// idempotency checks) and returns the executed list with statuses.
func (e *Executor) Execute(ctx context.Context, state convo.ConversationState) convo.Delta {
	if len(state.PendingActions) == 0 {
		return convo.Delta{}
	}

	metadata := make(map[string]interface{})
	executed := make([]convo.Action, len(state.PendingActions))

	for i, a := range state.PendingActions {
		switch a.Type {
		case convo.ActionDeliverResume:
			executed[i] = e.deliverResume(ctx, a, state, metadata)
		case convo.ActionOfferResume:
			executed[i] = e.offerResume(ctx, a, state, metadata)
		case convo.ActionAlertOwner:
			executed[i] = e.alertOwner(ctx, a, state, metadata)
		default:
			a.Status = convo.ActionSkipped
			a.Detail = "unknown action type"
			executed[i] = a
		}
	}

	return convo.Delta{
		Actions:    executed,
		ActionsSet: true,
		Metadata:   metadata,
	}
}

// deliverResume is the canonical contract: short-circuit on the sent
// flag, validate contact, issue link, deliver, optionally alert the
// owner, and only then raise the monotonic flag.
func (e *Executor) deliverResume(ctx context.Context, a convo.Action, state convo.ConversationState, metadata map[string]interface{}) convo.Action {
	memory := state.Memory

	// 1. Once per session.
	if memory != nil && memory.ResumeSent {
		a.Status = convo.ActionDuplicate
		a.Detail = convo.ErrDuplicateAction.Error()
		e.log.Info("action", "resume delivery short-circuited", map[string]interface{}{
			"session_id": state.SessionID,
		})
		return a
	}

	// 2. Contact must be present before any external call.
	contact := a.Params["contact"]
	if !emailPattern.MatchString(contact) {
		a.Status = convo.ActionBlocked
		a.Detail = "missing or invalid contact email"
		metadata["resume_delivery_blocked"] = "no contact email"
		return a
	}

	// 3. Time-limited secure link.
	link, err := e.linker.IssueLink(e.resumeDoc, contact)
	if err != nil {
		a.Status = convo.ActionFailed
		a.Detail = "link issuance failed"
		metadata["resume_delivery_error"] = err.Error()
		return a
	}

	// 4. Primary delivery.
	if err := e.mailer.SendResume(contact, e.ownerName, link); err != nil {
		a.Status = convo.ActionFailed
		a.Detail = "delivery failed"
		metadata["resume_delivery_error"] = err.Error()
		return a
	}

	// 5. Secondary owner notification, best-effort.
	if e.alerter != nil {
		event := events.NewResumeDeliveredEvent(state.SessionID, contact, link)
		if err := e.alerter.Publish(ctx, event); err != nil {
			metadata["owner_notify_error"] = err.Error()
		}
	}

	// 6. Raise the flag only after delivery succeeded.
	e.raiseFlag(ctx, state.SessionID, memory, store.FlagResumeSent, metadata)

	a.Status = convo.ActionDone
	a.Detail = fmt.Sprintf("resume sent to %s", contact)
	return a
}

func (e *Executor) offerResume(ctx context.Context, a convo.Action, state convo.ConversationState, metadata map[string]interface{}) convo.Action {
	memory := state.Memory
	if memory != nil && (memory.ResumeOffered || memory.ResumeSent) {
		a.Status = convo.ActionDuplicate
		a.Detail = convo.ErrDuplicateAction.Error()
		return a
	}

	e.raiseFlag(ctx, state.SessionID, memory, store.FlagResumeOffered, metadata)

	a.Status = convo.ActionDone
	a.Detail = "offer extended"
	return a
}

func (e *Executor) alertOwner(ctx context.Context, a convo.Action, state convo.ConversationState, metadata map[string]interface{}) convo.Action {
	memory := state.Memory
	if memory != nil && memory.OwnerAlerted {
		a.Status = convo.ActionDuplicate
		a.Detail = convo.ErrDuplicateAction.Error()
		return a
	}

	if e.alerter == nil {
		a.Status = convo.ActionSkipped
		a.Detail = "no alert channel configured"
		return a
	}

	contact, topics := "", []string{}
	signals := state.Intent.HiringSignals
	if memory != nil {
		contact = memory.ContactEmail
		topics = memory.Topics
	}

	event := events.NewOwnerAlertEvent(state.SessionID, string(state.Role), contact, signals, topics)
	if err := e.alerter.Publish(ctx, event); err != nil {
		a.Status = convo.ActionFailed
		a.Detail = "alert channel unavailable"
		metadata["owner_alert_error"] = err.Error()
		return a
	}

	e.raiseFlag(ctx, state.SessionID, memory, store.FlagOwnerAlerted, metadata)

	a.Status = convo.ActionDone
	a.Detail = "owner alerted"
	return a
}

// raiseFlag sets the monotonic flag both in the turn's memory and through
// the compare-and-set store. A lost CAS means a near-concurrent turn beat
// us to it; that is recorded, not raised.
func (e *Executor) raiseFlag(ctx context.Context, sessionID string, memory *store.SessionMemory, flag string, metadata map[string]interface{}) {
	if memory != nil {
		memory.SetFlag(flag)
	}
	if e.flags == nil {
		return
	}
	ok, err := e.flags.TrySetFlag(ctx, sessionID, flag)
	if err != nil {
		metadata["flag_store_error"] = err.Error()
		return
	}
	if !ok {
		metadata["flag_cas_lost"] = flag
	}
}
