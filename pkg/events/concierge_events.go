package events

import "time"

// Event type codes emitted by the concierge pipeline.
const (
	TypeOwnerAlert       = "OWNER_ALERT"
	TypeResumeDelivered  = "RESUME_DELIVERED"
	TypeDocumentAccessed = "DOCUMENT_ACCESSED"
)

// NewOwnerAlertEvent notifies the profile owner that a visitor showed a
// strong hiring signal. Carries everything the owner needs to follow up.
func NewOwnerAlertEvent(sessionID, role, contactEmail string, hiringSignal int, topics []string) Event {
	return BaseEvent{
		Type: TypeOwnerAlert,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"role":          role,
			"contact_email": contactEmail,
			"hiring_signal": hiringSignal,
			"topics":        topics,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentAccessedEvent records a signed link being opened.
func NewDocumentAccessedEvent(documentID, recipient string) Event {
	return BaseEvent{
		Type: TypeDocumentAccessed,
		Data: map[string]interface{}{
			"document_id": documentID,
			"recipient":   recipient,
		},
		OccurredAt: time.Now(),
	}
}

// NewResumeDeliveredEvent records a successful resume delivery.
func NewResumeDeliveredEvent(sessionID, recipient, documentLink string) Event {
	return BaseEvent{
		Type: TypeResumeDelivered,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"recipient":  recipient,
			"link":       documentLink,
		},
		OccurredAt: time.Now(),
	}
}
