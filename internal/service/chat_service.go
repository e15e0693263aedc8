// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-storefront/internal/dto"
	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/llm"
	"ai-storefront/pkg/prompt"
	"ai-storefront/pkg/render"
	"ai-storefront/pkg/store"
)

const (
	defaultAssistantGreeting = "Em có thể giúp gì cho anh/chị ạ?"
	chatPlaceholder          = "Nhập nội dung trao đổi ở đây !"

	msgMissingCredentials = "Không tìm thấy Google API Key. Vui lòng thiết lập biến GOOGLE_API_KEY trong secrets.env hoặc biến môi trường."
	msgModelTimeout       = "Trợ lý phản hồi quá lâu, vui lòng thử lại."
	msgModelFailure       = "Đã xảy ra lỗi với trợ lý AI: %v"
	msgInvalidAttachment  = "Ảnh đính kèm không hợp lệ (chỉ nhận PNG, JPEG hoặc WEBP, tối đa %d MB). Ảnh đã bị bỏ qua."
)

var ErrEmptyMessage = errors.New("message is empty")

type IChatService interface {
	// Panel renders the conversation for the chat area.
	Panel(ctx context.Context, s *store.Session) dto.ChatPanel
	// EnsureStarted seeds a new conversation with the assistant greeting.
	EnsureStarted(ctx context.Context, s *store.Session)
	SendTurn(ctx context.Context, s *store.Session, text string, upload *entity.Attachment) error
	SetPendingImage(ctx context.Context, s *store.Session, upload *entity.Attachment) error
	ClearPendingImage(ctx context.Context, s *store.Session)
	Reset(ctx context.Context, s *store.Session)
	TurnImage(s *store.Session, turnId string) (*entity.Attachment, bool)
}

type ChatOptions struct {
	DefaultModel       string
	VisualMatching     bool
	MaxAttachmentBytes int
}

type chatService struct {
	content    contract.ContentRepository
	gateway    llm.Gateway
	gatewayErr error
	publisher  IEventPublisher
	markdown   *render.Markdown
	logger     logger.ILogger
	opts       ChatOptions
}

// NewChatService takes the gateway construction result as is. A non-nil
// gatewayErr disables the chat for every session.
func NewChatService(
	content contract.ContentRepository,
	gateway llm.Gateway,
	gatewayErr error,
	publisher IEventPublisher,
	markdown *render.Markdown,
	logger logger.ILogger,
	opts ChatOptions,
) IChatService {
	return &chatService{
		content:    content,
		gateway:    gateway,
		gatewayErr: gatewayErr,
		publisher:  publisher,
		markdown:   markdown,
		logger:     logger,
		opts:       opts,
	}
}

func (c *chatService) Panel(ctx context.Context, s *store.Session) dto.ChatPanel {
	if c.gatewayErr != nil {
		msg := msgMissingCredentials
		if !errors.Is(c.gatewayErr, llm.ErrMissingCredentials) {
			msg = fmt.Sprintf("Lỗi khi cấu hình trợ lý AI: %v", c.gatewayErr)
		}
		return dto.ChatPanel{Disabled: true, Error: msg}
	}

	panel := dto.ChatPanel{
		Messages:    make([]dto.ChatMessage, 0, len(s.Conversation.Turns)),
		Placeholder: chatPlaceholder,
	}
	for _, turn := range s.Conversation.Turns {
		m := dto.ChatMessage{
			Id:   turn.Id.String(),
			Role: string(turn.Role),
			HTML: c.markdown.Render(turn.Text),
		}
		if turn.Image != nil {
			m.ImageURL = "/media/turns/" + turn.Id.String()
		}
		panel.Messages = append(panel.Messages, m)
	}
	if p := s.Conversation.PendingImage; p != nil {
		panel.PendingImage = p.Name
		if panel.PendingImage == "" {
			panel.PendingImage = "ảnh đính kèm"
		}
	}
	return panel
}

func (c *chatService) EnsureStarted(ctx context.Context, s *store.Session) {
	if c.gatewayErr != nil || len(s.Conversation.Turns) > 0 {
		return
	}

	greeting, err := c.content.ReadSystemText(ctx, contract.SystemAssistantGreeting)
	if err != nil {
		c.logger.Warn(logger.ModuleChat, "Failed to read assistant greeting", map[string]interface{}{"error": err.Error()})
	}
	if greeting == "" {
		greeting = defaultAssistantGreeting
	}
	s.Conversation.Turns = append(s.Conversation.Turns, entity.NewTurn(entity.RoleAssistant, greeting, nil))
}

func (c *chatService) SendTurn(ctx context.Context, s *store.Session, text string, upload *entity.Attachment) error {
	if c.gatewayErr != nil {
		return c.gatewayErr
	}
	c.EnsureStarted(ctx, s)

	text = strings.TrimSpace(text)
	if upload != nil {
		// An invalid upload is dropped with a warning, the text still goes out
		if err := c.SetPendingImage(ctx, s, upload); err != nil && text == "" {
			return err
		}
	}

	image := s.Conversation.PendingImage
	if text == "" && image == nil {
		return ErrEmptyMessage
	}

	// The pending image belongs to this turn whatever the outcome
	s.Conversation.PendingImage = nil
	prior := s.Conversation.Turns
	turn := entity.NewTurn(entity.RoleUser, text, image)
	s.Conversation.Turns = append(s.Conversation.Turns, turn)

	model := c.modelName(ctx)
	reply, err := c.send(ctx, s, prior, model, turn)
	if err != nil {
		// The live dialogue may hold the failed exchange; the next turn
		// rebuilds it from the answered turns.
		s.Conversation.Dialogue = nil
		c.logger.Error(logger.ModuleChat, "Model call failed", map[string]interface{}{
			"session_id": s.ID,
			"turn_id":    turn.Id.String(),
			"model":      model,
			"error":      err.Error(),
		})
		if errors.Is(err, llm.ErrTimeout) {
			s.AddNotice(store.NoticeError, msgModelTimeout)
		} else {
			s.AddNotice(store.NoticeError, fmt.Sprintf(msgModelFailure, err))
		}
		c.publisher.PublishTurnFailed(ctx, s.ID, turn.Id.String(), text, model, err)
		return err
	}

	s.Conversation.Turns = append(s.Conversation.Turns, entity.NewTurn(entity.RoleAssistant, reply, nil))
	c.publisher.PublishTurnCompleted(ctx, s.ID, turn.Id.String(), text, reply, model)
	return nil
}

func (c *chatService) send(ctx context.Context, s *store.Session, prior []entity.Turn, model string, turn entity.Turn) (string, error) {
	dialogue := s.Conversation.Dialogue
	if dialogue == nil {
		d, err := c.startDialogue(ctx, prior, model)
		if err != nil {
			return "", err
		}
		dialogue = d
		s.Conversation.Dialogue = d
	}

	msg := llm.Message{Role: llm.RoleUser, Content: turn.Text}
	if turn.Image != nil {
		msg.Image = &llm.Image{MIMEType: turn.Image.MIMEType, Data: turn.Image.Data}
	}
	return dialogue.Send(ctx, msg)
}

func (c *chatService) startDialogue(ctx context.Context, prior []entity.Turn, model string) (llm.Dialogue, error) {
	instruction, err := c.systemInstruction(ctx)
	if err != nil {
		return nil, err
	}

	history := ReplayHistory(prior)
	c.logger.Info(logger.ModuleGateway, "Starting model dialogue", map[string]interface{}{
		"provider":       c.gateway.Name(),
		"model":          model,
		"replayed_turns": len(history),
		"visual":         c.opts.VisualMatching,
	})

	return c.gateway.StartDialogue(ctx, llm.DialogueConfig{
		SystemInstruction: instruction,
		History:           history,
		Safety:            llm.PermissiveSafety,
	}, llm.WithModel(model))
}

func (c *chatService) systemInstruction(ctx context.Context) (string, error) {
	base, err := c.content.ReadSystemText(ctx, contract.SystemPrompt)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	products, err := c.content.ListProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}

	builder := prompt.NewSystemBuilder(base, products)
	if c.opts.VisualMatching {
		descriptions, err := c.content.ListProductDescriptions(ctx)
		if err != nil {
			return "", fmt.Errorf("list product descriptions: %w", err)
		}
		builder.WithVisualMatching(descriptions)
	}
	return builder.Build(), nil
}

func (c *chatService) modelName(ctx context.Context) string {
	override, err := c.content.ReadModelOverride(ctx)
	if err != nil {
		c.logger.Warn(logger.ModuleChat, "Failed to read model override", map[string]interface{}{"error": err.Error()})
	}
	if override != "" {
		return override
	}
	return c.opts.DefaultModel
}

func (c *chatService) SetPendingImage(ctx context.Context, s *store.Session, upload *entity.Attachment) error {
	valid, err := ValidateAttachment(upload, c.opts.MaxAttachmentBytes)
	if err != nil {
		c.logger.Warn(logger.ModuleChat, "Attachment rejected", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		s.AddNotice(store.NoticeWarning, fmt.Sprintf(msgInvalidAttachment, c.opts.MaxAttachmentBytes/(1024*1024)))
		return err
	}
	s.Conversation.PendingImage = valid
	return nil
}

func (c *chatService) ClearPendingImage(ctx context.Context, s *store.Session) {
	s.Conversation.PendingImage = nil
}

func (c *chatService) Reset(ctx context.Context, s *store.Session) {
	turns := len(s.Conversation.Turns)
	s.Reset()
	c.publisher.PublishSessionReset(ctx, s.ID, turns)
}

func (c *chatService) TurnImage(s *store.Session, turnId string) (*entity.Attachment, bool) {
	turn, ok := s.FindTurn(turnId)
	if !ok || turn.Image == nil {
		return nil, false
	}
	return turn.Image, true
}

// ReplayHistory converts recorded turns into dialogue history. Only user
// turns answered by an assistant turn are kept, with their answer, so the
// local greeting and failed turns are skipped.
func ReplayHistory(turns []entity.Turn) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for i := 0; i+1 < len(turns); i++ {
		q, a := turns[i], turns[i+1]
		if q.Role != entity.RoleUser || a.Role != entity.RoleAssistant {
			continue
		}
		user := llm.Message{Role: llm.RoleUser, Content: q.Text}
		if q.Image != nil {
			user.Image = &llm.Image{MIMEType: q.Image.MIMEType, Data: q.Image.Data}
		}
		history = append(history, user, llm.Message{Role: llm.RoleAssistant, Content: a.Text})
		i++
	}
	return history
}
