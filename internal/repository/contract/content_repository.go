package contract

import (
	"context"
	"errors"

	"ai-storefront/internal/entity"
)

var ErrContentNotFound = errors.New("content not found")

// System text files of the content store.
const (
	SystemGreetingHeading   = "00.xinchao.txt"
	SystemPrompt            = "01.system_trainning.txt"
	SystemAssistantGreeting = "02.assistant.txt"
	SystemLogo              = "logo.png"
)

// ContentRepository is the read side of the content store. List methods
// return a fresh snapshot; callers must not mutate cached slices.
type ContentRepository interface {
	ListArticles(ctx context.Context) ([]entity.ContentPage, error)
	ListInfoPages(ctx context.Context) ([]entity.ContentPage, error)
	ListProducts(ctx context.Context) ([]entity.ProductRecord, error)
	ListProductDescriptions(ctx context.Context) ([]entity.ProductDescription, error)

	// ReadBody returns ErrContentNotFound when the body is gone.
	ReadBody(ctx context.Context, ref string) (string, error)
	// ReadImage returns ErrContentNotFound for a missing or unrecognized image.
	ReadImage(ctx context.Context, ref string) (*entity.Attachment, error)

	// ReadSystemText returns "" for missing files.
	ReadSystemText(ctx context.Context, name string) (string, error)
	ReadLogo(ctx context.Context) (*entity.Attachment, error)
	// ReadModelOverride returns the single-line model name override, or "".
	ReadModelOverride(ctx context.Context) (string, error)
}
