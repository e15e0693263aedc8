package controller

import (
	"ai-storefront/internal/dto"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/pkg/serverutils"
	"ai-storefront/internal/service"
	"ai-storefront/pkg/session"
	"ai-storefront/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	Attach(ctx *fiber.Ctx) error
	ClearAttachment(ctx *fiber.Ctx) error
}

type chatController struct {
	service            service.IChatService
	sessions           *session.Manager
	logger             logger.ILogger
	maxAttachmentBytes int
}

func NewChatController(service service.IChatService, sessions *session.Manager, logger logger.ILogger, maxAttachmentBytes int) IChatController {
	return &chatController{
		service:            service,
		sessions:           sessions,
		logger:             logger,
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/messages", c.SendMessage)
	h.Post("/attachment", c.Attach)
	h.Post("/attachment/clear", c.ClearAttachment)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Yêu cầu không hợp lệ")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	upload, err := readUpload(ctx, "image", c.maxAttachmentBytes)
	if err != nil {
		return err
	}

	err = c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		// Turn failures are recorded on the session as notices
		if err := c.service.SendTurn(ctx.UserContext(), s, req.Message, upload); err != nil {
			c.logger.Debug(logger.ModuleChat, "Turn not completed", map[string]interface{}{
				"session_id": s.ID,
				"error":      err.Error(),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (c *chatController) Attach(ctx *fiber.Ctx) error {
	upload, err := readUpload(ctx, "image", c.maxAttachmentBytes)
	if err != nil {
		return err
	}

	err = c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		if upload == nil {
			s.AddNotice(store.NoticeWarning, "Chưa chọn ảnh để đính kèm.")
			return nil
		}
		// Rejections are reported through a notice
		_ = c.service.SetPendingImage(ctx.UserContext(), s, upload)
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (c *chatController) ClearAttachment(ctx *fiber.Ctx) error {
	err := c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		c.service.ClearPendingImage(ctx.UserContext(), s)
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}
