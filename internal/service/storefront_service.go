// FILE: internal/service/storefront_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"ai-storefront/internal/dto"
	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/navigation"
	"ai-storefront/pkg/render"
	"ai-storefront/pkg/store"
)

const (
	featuredCount          = 3
	defaultGreetingHeading = "Chào mừng đến với Trợ lý AI"
	msgPageNotFound        = "Không thể tìm thấy trang được yêu cầu."
)

var ErrPageNotFound = errors.New("page not found")

// Invalidator drops cached content snapshots.
type Invalidator interface {
	Invalidate()
}

type IStorefrontService interface {
	// Shell builds the view model of the current screen and consumes the
	// pending notices.
	Shell(ctx context.Context, s *store.Session) (*dto.ShellView, error)
	Navigate(ctx context.Context, s *store.Session, action navigation.Action, pageId string) error
	// RenderFrame returns the injected HTML of the page the session is viewing.
	RenderFrame(ctx context.Context, s *store.Session, pageId string) (string, error)
	PageCover(ctx context.Context, pageId string) (*entity.Attachment, error)
	Logo(ctx context.Context) (*entity.Attachment, error)
	Refresh(ctx context.Context) (*dto.RefreshContentResponse, error)
}

type SiteInfo struct {
	AuthorName string
	AuthorURL  string
}

type storefrontService struct {
	content     contract.ContentRepository
	invalidator Invalidator
	router      *navigation.Router
	chat        IChatService
	publisher   IEventPublisher
	logger      logger.ILogger
	site        SiteInfo
}

func NewStorefrontService(
	content contract.ContentRepository,
	invalidator Invalidator,
	router *navigation.Router,
	chat IChatService,
	publisher IEventPublisher,
	logger logger.ILogger,
	site SiteInfo,
) IStorefrontService {
	return &storefrontService{
		content:     content,
		invalidator: invalidator,
		router:      router,
		chat:        chat,
		publisher:   publisher,
		logger:      logger,
		site:        site,
	}
}

func (c *storefrontService) Shell(ctx context.Context, s *store.Session) (*dto.ShellView, error) {
	view := c.router.Normalize(s.View)
	if view != s.View {
		c.logger.Warn(logger.ModuleRouter, "Invalid view state reset", map[string]interface{}{
			"session_id": s.ID,
			"kind":       s.View.Kind,
			"page_id":    s.View.PageID,
		})
		s.View = view
	}

	infoPages, err := c.content.ListInfoPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list info pages: %w", err)
	}

	shell := &dto.ShellView{
		Kind:       string(view.Kind),
		Sidebar:    toCards(infoPages),
		AuthorName: c.site.AuthorName,
		AuthorURL:  c.site.AuthorURL,
	}

	switch view.Kind {
	case navigation.KindInfoList:
		shell.InfoList = &dto.InfoListView{Pages: shell.Sidebar}
	case navigation.KindContent:
		shell.Content = c.contentView(ctx, view)
	default:
		home, err := c.homeView(ctx, s)
		if err != nil {
			return nil, err
		}
		shell.Home = home
	}

	for _, n := range s.TakeNotices() {
		shell.Notices = append(shell.Notices, dto.Notice{Level: n.Level, Text: n.Text})
	}
	return shell, nil
}

func (c *storefrontService) homeView(ctx context.Context, s *store.Session) (*dto.HomeView, error) {
	articles, err := c.content.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if len(articles) > featuredCount {
		articles = articles[:featuredCount]
	}

	// Featured articles without a cover are not shown
	featured := make([]entity.ContentPage, 0, len(articles))
	for _, a := range articles {
		if a.HasImage() {
			featured = append(featured, a)
		}
	}

	heading, err := c.content.ReadSystemText(ctx, contract.SystemGreetingHeading)
	if err != nil {
		return nil, fmt.Errorf("read greeting heading: %w", err)
	}
	if heading == "" {
		heading = defaultGreetingHeading
	}

	_, logoErr := c.content.ReadLogo(ctx)

	c.chat.EnsureStarted(ctx, s)
	return &dto.HomeView{
		Featured: toCards(featured),
		Heading:  heading,
		HasLogo:  logoErr == nil,
		Chat:     c.chat.Panel(ctx, s),
	}, nil
}

func (c *storefrontService) contentView(ctx context.Context, view navigation.State) *dto.ContentView {
	out := &dto.ContentView{
		PageId:    view.PageID,
		BackLabel: c.router.BackLabel(view),
		FrameURL:  "/pages/" + view.PageID + "/frame",
	}

	if _, err := c.content.ReadBody(ctx, view.Payload.BodyRef); err != nil {
		c.logger.Warn(logger.ModuleContent, "Content body missing", map[string]interface{}{
			"page_id":  view.PageID,
			"body_ref": view.Payload.BodyRef,
			"error":    err.Error(),
		})
		out.NotFound = true
		out.BackLabel = "Quay về Trang chủ"
		return out
	}

	if page, err := c.findPage(ctx, view.PageID); err == nil {
		out.Title = page.Title
	}
	return out
}

func (c *storefrontService) Navigate(ctx context.Context, s *store.Session, action navigation.Action, pageId string) error {
	var target *navigation.Target
	if action == navigation.ActionOpen {
		page, err := c.findPage(ctx, pageId)
		if err != nil {
			if errors.Is(err, ErrPageNotFound) {
				s.AddNotice(store.NoticeError, msgPageNotFound)
			}
			return err
		}
		target = &navigation.Target{PageID: page.ID, BodyRef: page.BodyRef, ImageRef: page.ImageRef}
	}

	from := s.View
	s.View = c.router.Apply(s.View, action, target)
	c.logger.Debug(logger.ModuleRouter, "Navigated", map[string]interface{}{
		"session_id": s.ID,
		"action":     action,
		"from":       from.Kind,
		"to":         s.View.Kind,
		"page_id":    s.View.PageID,
	})
	return nil
}

func (c *storefrontService) RenderFrame(ctx context.Context, s *store.Session, pageId string) (string, error) {
	view := c.router.Normalize(s.View)
	if view.Kind != navigation.KindContent || view.PageID != pageId {
		return "", ErrPageNotFound
	}

	body, err := c.content.ReadBody(ctx, view.Payload.BodyRef)
	if err != nil {
		if errors.Is(err, contract.ErrContentNotFound) {
			return "", ErrPageNotFound
		}
		return "", err
	}

	var image *render.Image
	if ref := view.Payload.ImageRef; ref != "" {
		img, err := c.content.ReadImage(ctx, ref)
		switch {
		case err == nil:
			image = &render.Image{MIMEType: img.MIMEType, Data: img.Data}
		case errors.Is(err, contract.ErrContentNotFound):
			c.logger.Warn(logger.ModuleContent, "Cover image missing", map[string]interface{}{"image_ref": ref})
		default:
			return "", err
		}
	}

	return render.Inject(body, image), nil
}

func (c *storefrontService) PageCover(ctx context.Context, pageId string) (*entity.Attachment, error) {
	page, err := c.findPage(ctx, pageId)
	if err != nil {
		return nil, err
	}
	if !page.HasImage() {
		return nil, ErrPageNotFound
	}
	img, err := c.content.ReadImage(ctx, page.ImageRef)
	if errors.Is(err, contract.ErrContentNotFound) {
		return nil, ErrPageNotFound
	}
	return img, err
}

func (c *storefrontService) Logo(ctx context.Context) (*entity.Attachment, error) {
	img, err := c.content.ReadLogo(ctx)
	if errors.Is(err, contract.ErrContentNotFound) {
		return nil, ErrPageNotFound
	}
	return img, err
}

func (c *storefrontService) Refresh(ctx context.Context) (*dto.RefreshContentResponse, error) {
	if c.invalidator != nil {
		c.invalidator.Invalidate()
	}

	articles, err := c.content.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	infoPages, err := c.content.ListInfoPages(ctx)
	if err != nil {
		return nil, err
	}
	products, err := c.content.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.RefreshContentResponse{
		Articles:  len(articles),
		InfoPages: len(infoPages),
		Products:  len(products),
	}
	c.logger.Info(logger.ModuleContent, "Content snapshot refreshed", map[string]interface{}{
		"articles":   res.Articles,
		"info_pages": res.InfoPages,
		"products":   res.Products,
	})
	c.publisher.PublishContentRefreshed(ctx, res.Articles, res.InfoPages, res.Products)
	return res, nil
}

func (c *storefrontService) findPage(ctx context.Context, pageId string) (*entity.ContentPage, error) {
	section, ok := entity.SectionForPageID(pageId)
	if !ok {
		return nil, ErrPageNotFound
	}

	var (
		pages []entity.ContentPage
		err   error
	)
	if section == entity.SectionArticles {
		pages, err = c.content.ListArticles(ctx)
	} else {
		pages, err = c.content.ListInfoPages(ctx)
	}
	if err != nil {
		return nil, err
	}

	for i := range pages {
		if pages[i].ID == pageId {
			return &pages[i], nil
		}
	}
	return nil, ErrPageNotFound
}

func toCards(pages []entity.ContentPage) []dto.PageCard {
	cards := make([]dto.PageCard, 0, len(pages))
	for _, p := range pages {
		card := dto.PageCard{Id: p.ID, Title: p.Title}
		if p.HasImage() {
			card.CoverURL = "/media/pages/" + p.ID + "/cover"
		}
		cards = append(cards, card)
	}
	return cards
}
