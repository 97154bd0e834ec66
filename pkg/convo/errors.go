package convo

import "errors"

// Domain error taxonomy. Stage boundaries convert service errors into state
// flags or fallback content; only ErrValidation escapes to the caller.
var (
	// ErrValidation means a required input (query, role, session id) is
	// missing or malformed. Fail-fast, before any stage runs.
	ErrValidation = errors.New("validation failed")

	// ErrServiceUnavailable means an external collaborator (embedding,
	// store, generation, notification) failed or timed out.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrQualityGate means grounding was insufficient. A soft stop, not a
	// failure from the visitor's point of view.
	ErrQualityGate = errors.New("grounding quality gate failed")

	// ErrDuplicateAction means an idempotency guard blocked a repeat side
	// effect. Logged only, never surfaced.
	ErrDuplicateAction = errors.New("duplicate action prevented")
)
