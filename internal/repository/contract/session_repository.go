package contract

import (
	"context"

	"ai-storefront/pkg/store"
)

// SessionRepository keeps per-browser sessions between requests.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*store.Session, bool, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, id string) error
}
