package controller

import (
	"github.com/gofiber/fiber/v2"

	"profile-concierge-be/internal/pkg/serverutils"
	"profile-concierge-be/internal/service"
)

type IOpsController interface {
	RegisterRoutes(r fiber.Router)
	Interactions(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type opsController struct {
	analyticsService service.IAnalyticsService
}

func NewOpsController(analyticsService service.IAnalyticsService) IOpsController {
	return &opsController{
		analyticsService: analyticsService,
	}
}

func (c *opsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ops/v1")
	h.Get("interactions", c.Interactions)
	h.Get("logs", c.Logs)
}

func (c *opsController) Interactions(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	records, total, err := c.analyticsService.RecentInteractions(ctx.Context(), sessionID, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", fiber.Map{
		"total":        total,
		"interactions": records,
	}))
}

func (c *opsController) Logs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.analyticsService.Logs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", logs))
}
