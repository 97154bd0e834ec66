package service

import (
	"context"
	"fmt"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/internal/pkg/mailer"
	"profile-concierge-be/pkg/events"
	"profile-concierge-be/pkg/nats"
)

type IOwnerNotifier interface {
	Start() error
}

// ownerNotifier turns pipeline alert events into an email digest for
// the profile owner. It listens on the durable NATS consumer so alerts
// raised while the notifier was down are still delivered.
type ownerNotifier struct {
	subscriber *nats.Subscriber
	email      mailer.IEmailService
	ownerEmail string
	log        logger.ILogger
}

func NewOwnerNotifier(subscriber *nats.Subscriber, email mailer.IEmailService, ownerEmail string, log logger.ILogger) IOwnerNotifier {
	return &ownerNotifier{
		subscriber: subscriber,
		email:      email,
		ownerEmail: ownerEmail,
		log:        log,
	}
}

func (n *ownerNotifier) Start() error {
	if n.subscriber == nil {
		n.log.Warn("owner_notifier", "nats unavailable, owner emails disabled", nil)
		return nil
	}
	return n.subscriber.Subscribe("concierge.>", "owner-notifier", n.handle)
}

func (n *ownerNotifier) handle(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	var subject string
	var lines []string
	switch event.EventType() {
	case "concierge." + events.TypeOwnerAlert:
		subject = "A visitor is showing hiring interest"
		lines = []string{
			fmt.Sprintf("Role: %v", payload["role"]),
			fmt.Sprintf("Contact: %v", payload["contact_email"]),
			fmt.Sprintf("Hiring signal score: %v", payload["hiring_signal"]),
			fmt.Sprintf("Topics discussed: %v", payload["topics"]),
			fmt.Sprintf("Session: %v", payload["session_id"]),
		}
	case "concierge." + events.TypeResumeDelivered:
		subject = "Your resume was just delivered"
		lines = []string{
			fmt.Sprintf("Recipient: %v", payload["recipient"]),
			fmt.Sprintf("Session: %v", payload["session_id"]),
		}
	case "concierge." + events.TypeDocumentAccessed:
		subject = "A shared document link was opened"
		lines = []string{
			fmt.Sprintf("Document: %v", payload["document_id"]),
			fmt.Sprintf("Recipient: %v", payload["recipient"]),
		}
	default:
		return nil
	}

	if n.ownerEmail == "" {
		return nil
	}
	if err := n.email.SendOwnerDigest(n.ownerEmail, subject, lines); err != nil {
		n.log.Error("owner_notifier", "digest email failed", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}
