package controller

import (
	"errors"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/serverutils"
	"ai-storefront/internal/service"
	"ai-storefront/internal/view"
	"ai-storefront/pkg/navigation"
	"ai-storefront/pkg/session"
	"ai-storefront/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IStorefrontController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Navigate(action navigation.Action) fiber.Handler
	Open(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Frame(ctx *fiber.Ctx) error
	PageCover(ctx *fiber.Ctx) error
	Logo(ctx *fiber.Ctx) error
	TurnImage(ctx *fiber.Ctx) error
}

type storefrontController struct {
	service  service.IStorefrontService
	chat     service.IChatService
	sessions *session.Manager
	renderer *view.Renderer
}

func NewStorefrontController(
	service service.IStorefrontService,
	chat service.IChatService,
	sessions *session.Manager,
	renderer *view.Renderer,
) IStorefrontController {
	return &storefrontController{
		service:  service,
		chat:     chat,
		sessions: sessions,
		renderer: renderer,
	}
}

func (c *storefrontController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Index)

	nav := r.Group("/nav")
	nav.Post("/articles", c.Navigate(navigation.ActionReadArticles))
	nav.Post("/back", c.Navigate(navigation.ActionBack))
	nav.Post("/home", c.Navigate(navigation.ActionHome))
	nav.Post("/open/:id", c.Open)

	r.Post("/session/reset", c.Reset)
	r.Get("/pages/:id/frame", c.Frame)

	media := r.Group("/media")
	media.Get("/pages/:id/cover", c.PageCover)
	media.Get("/logo", c.Logo)
	media.Get("/turns/:turnId", c.TurnImage)
}

func (c *storefrontController) Index(ctx *fiber.Ctx) error {
	var page []byte
	err := c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		shell, err := c.service.Shell(ctx.UserContext(), s)
		if err != nil {
			return err
		}
		page, err = c.renderer.Shell(shell)
		return err
	})
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderCacheControl, "no-store")
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Send(page)
}

func (c *storefrontController) Navigate(action navigation.Action) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
			return c.service.Navigate(ctx.UserContext(), s, action, "")
		})
		if err != nil {
			return err
		}
		return ctx.Redirect("/", fiber.StatusSeeOther)
	}
}

func (c *storefrontController) Open(ctx *fiber.Ctx) error {
	pageId := ctx.Params("id")
	err := c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		err := c.service.Navigate(ctx.UserContext(), s, navigation.ActionOpen, pageId)
		if errors.Is(err, service.ErrPageNotFound) {
			// Reported through a notice
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (c *storefrontController) Reset(ctx *fiber.Ctx) error {
	err := c.sessions.With(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		c.chat.Reset(ctx.UserContext(), s)
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (c *storefrontController) Frame(ctx *fiber.Ctx) error {
	var html string
	err := c.sessions.View(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		var err error
		html, err = c.service.RenderFrame(ctx.UserContext(), s, ctx.Params("id"))
		return err
	})
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Không thể tìm thấy trang được yêu cầu.")
		}
		return err
	}

	ctx.Set(fiber.HeaderXFrameOptions, "SAMEORIGIN")
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.SendString(html)
}

func (c *storefrontController) PageCover(ctx *fiber.Ctx) error {
	img, err := c.service.PageCover(ctx.UserContext(), ctx.Params("id"))
	return sendImage(ctx, img, err, "public, max-age=600")
}

func (c *storefrontController) Logo(ctx *fiber.Ctx) error {
	img, err := c.service.Logo(ctx.UserContext())
	return sendImage(ctx, img, err, "public, max-age=600")
}

func (c *storefrontController) TurnImage(ctx *fiber.Ctx) error {
	var (
		img *entity.Attachment
		ok  bool
	)
	err := c.sessions.View(ctx.UserContext(), serverutils.SessionID(ctx), func(s *store.Session) error {
		img, ok = c.chat.TurnImage(s, ctx.Params("turnId"))
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return fiber.ErrNotFound
	}
	return sendImage(ctx, img, nil, "private, max-age=3600")
}

func sendImage(ctx *fiber.Ctx, img *entity.Attachment, err error, cacheControl string) error {
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	ctx.Set(fiber.HeaderContentType, img.MIMEType)
	ctx.Set(fiber.HeaderCacheControl, cacheControl)
	return ctx.Send(img.Data)
}
