package cached

import (
	"context"
	"slices"
	"time"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/repository/contract"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	keyArticles     = "pages:articles"
	keyInfoPages    = "pages:info"
	keyProducts     = "products"
	keyDescriptions = "products:descriptions"
	keyModel        = "model_override"
	keySystemPrefix = "system:"
)

// ContentRepository keeps snapshots of the list and system-text reads for a
// fixed TTL. Invalidation is wholesale. Bodies and images pass through.
type ContentRepository struct {
	next  contract.ContentRepository
	cache *cache.Cache
	group singleflight.Group
}

var _ contract.ContentRepository = (*ContentRepository)(nil)

func NewContentRepository(next contract.ContentRepository, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Invalidate drops every snapshot; the next read rescans the store.
func (r *ContentRepository) Invalidate() {
	r.cache.Flush()
}

func load[T any](r *ContentRepository, key string, fetch func() (T, error)) (T, error) {
	if v, found := r.cache.Get(key); found {
		return v.(T), nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		fresh, err := fetch()
		if err != nil {
			return nil, err
		}
		r.cache.SetDefault(key, fresh)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (r *ContentRepository) ListArticles(ctx context.Context) ([]entity.ContentPage, error) {
	pages, err := load(r, keyArticles, func() ([]entity.ContentPage, error) {
		return r.next.ListArticles(ctx)
	})
	return slices.Clone(pages), err
}

func (r *ContentRepository) ListInfoPages(ctx context.Context) ([]entity.ContentPage, error) {
	pages, err := load(r, keyInfoPages, func() ([]entity.ContentPage, error) {
		return r.next.ListInfoPages(ctx)
	})
	return slices.Clone(pages), err
}

func (r *ContentRepository) ListProducts(ctx context.Context) ([]entity.ProductRecord, error) {
	products, err := load(r, keyProducts, func() ([]entity.ProductRecord, error) {
		return r.next.ListProducts(ctx)
	})
	return slices.Clone(products), err
}

func (r *ContentRepository) ListProductDescriptions(ctx context.Context) ([]entity.ProductDescription, error) {
	descriptions, err := load(r, keyDescriptions, func() ([]entity.ProductDescription, error) {
		return r.next.ListProductDescriptions(ctx)
	})
	return slices.Clone(descriptions), err
}

func (r *ContentRepository) ReadBody(ctx context.Context, ref string) (string, error) {
	return r.next.ReadBody(ctx, ref)
}

func (r *ContentRepository) ReadImage(ctx context.Context, ref string) (*entity.Attachment, error) {
	return r.next.ReadImage(ctx, ref)
}

func (r *ContentRepository) ReadSystemText(ctx context.Context, name string) (string, error) {
	return load(r, keySystemPrefix+name, func() (string, error) {
		return r.next.ReadSystemText(ctx, name)
	})
}

func (r *ContentRepository) ReadLogo(ctx context.Context) (*entity.Attachment, error) {
	return r.next.ReadLogo(ctx)
}

func (r *ContentRepository) ReadModelOverride(ctx context.Context) (string, error) {
	return load(r, keyModel, func() (string, error) {
		return r.next.ReadModelOverride(ctx)
	})
}
