package contract

import (
	"context"

	"profile-concierge-be/internal/repository/specification"
	"profile-concierge-be/pkg/convo/telemetry"
)

// IInteractionRepository is the append-only analytics store. AppendTurn
// satisfies the telemetry recorder's Sink contract for the direct path;
// the analytics consumer uses it for the bus path.
type IInteractionRepository interface {
	AppendTurn(ctx context.Context, record telemetry.TurnRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]telemetry.InteractionRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
