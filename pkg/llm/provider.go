package llm

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned when the model did not answer within the gateway timeout.
	ErrTimeout = errors.New("model call timed out")
	// ErrMissingCredentials means the gateway cannot be used at all.
	ErrMissingCredentials = errors.New("model API key is not configured")
	// ErrEmptyResponse is returned when the model answered without any text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Image is an inline picture sent along with a message.
type Image struct {
	MIMEType string
	Data     []byte
}

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user" or "assistant"
	Content string
	Image   *Image
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// DialogueConfig seeds a new dialogue.
type DialogueConfig struct {
	SystemInstruction string
	// History replays earlier exchanges, oldest first, alternating user/assistant.
	History []Message
	Safety  SafetyConfig
}

// Dialogue is a stateful conversation with the model. After a failed Send the
// history is unspecified (the Gemini chat may record an exchange that came
// back empty), so callers discard the dialogue and start a new one.
type Dialogue interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Gateway defines the contract for any model backend
type Gateway interface {
	StartDialogue(ctx context.Context, cfg DialogueConfig, options ...Option) (Dialogue, error)
	Name() string
}
