package controller

import (
	"github.com/gofiber/fiber/v2"

	"profile-concierge-be/internal/dto"
	"profile-concierge-be/internal/pkg/serverutils"
	"profile-concierge-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Topics(ctx *fiber.Ctx) error
}

type chatController struct {
	conciergeService service.IConciergeService
}

func NewChatController(conciergeService service.IConciergeService) IChatController {
	return &chatController{
		conciergeService: conciergeService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/concierge/v1")
	h.Post("chat", c.Chat)
	h.Get("history/:session_id", c.History)
	h.Get("topics", c.Topics)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conciergeService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.conciergeService.History(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Topics(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success", c.conciergeService.SuggestedTopics()))
}
