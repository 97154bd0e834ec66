package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"profile-concierge-be/internal/service"
	"profile-concierge-be/pkg/convo"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

// RegisterRoutes hangs off the app root, not /api: signed links embed
// the /documents path directly.
func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Get("/documents/:id", c.Download)
}

func (c *documentController) Download(ctx *fiber.Ctx) error {
	documentID := ctx.Params("id")
	token := ctx.Query("token")
	if token == "" {
		return fmt.Errorf("%w: missing token", convo.ErrValidation)
	}

	path, err := c.documentService.Resolve(ctx.Context(), documentID, token)
	if err != nil {
		return err
	}

	return ctx.Download(path)
}
