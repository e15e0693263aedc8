package controller

import (
	"errors"

	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/pkg/serverutils"
	"ai-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	RefreshContent(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	storefront service.IStorefrontService
	logger     logger.ILogger
	transcript logger.ILogger
	jwtSecret  string
}

func NewAdminController(storefront service.IStorefrontService, logger, transcript logger.ILogger, jwtSecret string) IAdminController {
	return &adminController{
		storefront: storefront,
		logger:     logger,
		transcript: transcript,
		jwtSecret:  jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("/content/refresh", c.RefreshContent)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) RefreshContent(ctx *fiber.Ctx) error {
	res, err := c.storefront.Refresh(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Content refreshed", res))
}

// source picks the application log or the conversation transcript.
func (c *adminController) source(ctx *fiber.Ctx) logger.ILogger {
	if ctx.Query("source") == "transcript" {
		return c.transcript
	}
	return c.logger
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := ctx.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, err := c.source(ctx).GetLogs(ctx.Query("level"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	entry, err := c.source(ctx).GetLogById(ctx.Params("id"))
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Log entry not found")
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log", entry))
}
