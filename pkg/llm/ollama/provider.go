package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"ai-storefront/pkg/llm"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements Gateway
var _ llm.Gateway = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (o *OllamaProvider) Name() string {
	return "ollama:" + o.ModelName
}

// StartDialogue keeps the conversation client side; Ollama's chat endpoint is
// stateless, so every Send posts the full history.
func (o *OllamaProvider) StartDialogue(ctx context.Context, cfg llm.DialogueConfig, opts ...llm.Option) (llm.Dialogue, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	d := &dialogue{
		provider: o,
		model:    model,
		options:  options,
	}
	if cfg.SystemInstruction != "" {
		d.history = append(d.history, ollamaMessage{Role: "system", Content: cfg.SystemInstruction})
	}
	for _, msg := range cfg.History {
		d.history = append(d.history, toOllamaMessage(msg))
	}
	return d, nil
}

type dialogue struct {
	provider *OllamaProvider
	model    string
	options  *llm.Options

	mu      sync.Mutex
	history []ollamaMessage
}

func (d *dialogue) Send(ctx context.Context, msg llm.Message) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	userMessage := toOllamaMessage(llm.Message{Role: llm.RoleUser, Content: msg.Content, Image: msg.Image})
	messages := append(append([]ollamaMessage{}, d.history...), userMessage)

	reply, err := d.provider.chat(ctx, d.model, messages, d.options)
	if err != nil {
		return "", err
	}
	if reply.Content == "" {
		return "", llm.ErrEmptyResponse
	}

	d.history = append(messages, ollamaMessage{Role: "assistant", Content: reply.Content})
	return reply.Content, nil
}

func toOllamaMessage(msg llm.Message) ollamaMessage {
	role := msg.Role
	if role == "model" {
		role = "assistant"
	}
	out := ollamaMessage{Role: role, Content: msg.Content}
	if msg.Image != nil && len(msg.Image.Data) > 0 {
		out.Images = []string{base64.StdEncoding.EncodeToString(msg.Image.Data)}
	}
	return out
}

func (o *OllamaProvider) chat(ctx context.Context, model string, messages []ollamaMessage, options *llm.Options) (*ollamaMessage, error) {
	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &ollamaResp.Message, nil
}
