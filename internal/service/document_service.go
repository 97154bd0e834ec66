package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"profile-concierge-be/internal/pkg/logger"
	"profile-concierge-be/pkg/convo"
	"profile-concierge-be/pkg/docs"
	"profile-concierge-be/pkg/events"
	"profile-concierge-be/pkg/nats"
)

type IDocumentService interface {
	// Resolve verifies a signed link token and returns the path of the
	// file to serve.
	Resolve(ctx context.Context, documentID, token string) (string, error)
}

type documentService struct {
	signer       *docs.LinkSigner
	publisher    *nats.Publisher
	documentsDir string
	log          logger.ILogger
}

func NewDocumentService(signer *docs.LinkSigner, publisher *nats.Publisher, documentsDir string, log logger.ILogger) IDocumentService {
	return &documentService{
		signer:       signer,
		publisher:    publisher,
		documentsDir: documentsDir,
		log:          log,
	}
}

func (s *documentService) Resolve(ctx context.Context, documentID, token string) (string, error) {
	signedDoc, recipient, err := s.signer.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: document link rejected", convo.ErrValidation)
	}
	if signedDoc != documentID {
		return "", fmt.Errorf("%w: document link rejected", convo.ErrValidation)
	}

	// The id comes from a verified token but still never leaves the
	// documents directory.
	name := filepath.Base(strings.TrimSpace(documentID))
	path := filepath.Join(s.documentsDir, name+".pdf")
	if _, err := os.Stat(path); err != nil {
		s.log.Error("documents", "document missing on disk", map[string]interface{}{
			"document_id": documentID,
		})
		return "", fmt.Errorf("%w: document store", convo.ErrServiceUnavailable)
	}

	if s.publisher != nil {
		event := events.NewDocumentAccessedEvent(documentID, recipient)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn("documents", "access event dropped", map[string]interface{}{
				"document_id": documentID,
			})
		}
	}

	return path, nil
}
