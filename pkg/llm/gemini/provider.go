package gemini

import (
	"context"
	"fmt"
	"strings"

	"ai-storefront/pkg/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-pro-latest"

// Provider talks to the Gemini API through the genai SDK.
type Provider struct {
	client    *genai.Client
	modelName string
}

// Ensure Provider implements Gateway
var _ llm.Gateway = &Provider{}

func NewProvider(ctx context.Context, apiKey, modelName string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrMissingCredentials
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		client:    client,
		modelName: modelName,
	}, nil
}

func (p *Provider) Name() string {
	return "gemini:" + p.modelName
}

func (p *Provider) StartDialogue(ctx context.Context, cfg llm.DialogueConfig, opts ...llm.Option) (llm.Dialogue, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	chat, err := p.client.Chats.Create(ctx, model, BuildConfig(cfg, options), BuildHistory(cfg.History))
	if err != nil {
		return nil, fmt.Errorf("create gemini chat: %w", err)
	}
	return &dialogue{chat: chat}, nil
}

type dialogue struct {
	chat *genai.Chat
}

func (d *dialogue) Send(ctx context.Context, msg llm.Message) (string, error) {
	resp, err := d.chat.SendMessage(ctx, BuildParts(msg)...)
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// BuildConfig maps the dialogue settings onto a genai generation config.
func BuildConfig(cfg llm.DialogueConfig, options *llm.Options) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		SafetySettings: BuildSafetySettings(cfg.Safety),
	}
	if cfg.SystemInstruction != "" {
		out.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if options != nil && options.Temperature > 0 {
		t := float32(options.Temperature)
		out.Temperature = &t
	}
	return out
}

// BuildSafetySettings returns one setting per category that has a threshold.
func BuildSafetySettings(s llm.SafetyConfig) []*genai.SafetySetting {
	pairs := []struct {
		category  genai.HarmCategory
		threshold llm.Threshold
	}{
		{genai.HarmCategoryHarassment, s.Harassment},
		{genai.HarmCategoryHateSpeech, s.HateSpeech},
		{genai.HarmCategorySexuallyExplicit, s.SexuallyExplicit},
		{genai.HarmCategoryDangerousContent, s.DangerousContent},
	}

	settings := make([]*genai.SafetySetting, 0, len(pairs))
	for _, p := range pairs {
		if p.threshold == llm.ThresholdUnspecified {
			continue
		}
		settings = append(settings, &genai.SafetySetting{
			Category:  p.category,
			Threshold: genai.HarmBlockThreshold(p.threshold),
		})
	}
	return settings
}

// BuildHistory converts replayed messages to genai contents.
func BuildHistory(history []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		parts := BuildParts(msg)
		ptrs := make([]*genai.Part, len(parts))
		for i := range parts {
			ptrs[i] = &parts[i]
		}
		contents = append(contents, genai.NewContentFromParts(ptrs, role))
	}
	return contents
}

// BuildParts turns a message into a text part plus an optional inline image.
// An image-only message has no text part.
func BuildParts(msg llm.Message) []genai.Part {
	hasImage := msg.Image != nil && len(msg.Image.Data) > 0

	var parts []genai.Part
	if msg.Content != "" || !hasImage {
		parts = append(parts, genai.Part{Text: msg.Content})
	}
	if hasImage {
		parts = append(parts, genai.Part{
			InlineData: &genai.Blob{
				MIMEType: msg.Image.MIMEType,
				Data:     msg.Image.Data,
			},
		})
	}
	return parts
}
