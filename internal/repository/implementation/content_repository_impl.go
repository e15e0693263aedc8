package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/mapper"
	"ai-storefront/internal/model"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModelOverrideAsset is the system asset holding the model name override.
const ModelOverrideAsset = "module_gemini.txt"

// SystemAssetNames are copied by Import.
var SystemAssetNames = []string{
	contract.SystemGreetingHeading,
	contract.SystemPrompt,
	contract.SystemAssistantGreeting,
}

type ContentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

var _ contract.ContentRepository = (*ContentRepositoryImpl)(nil)

func NewContentRepository(db *gorm.DB) *ContentRepositoryImpl {
	return &ContentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

// AutoMigrate creates or updates the content tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.ContentPage{},
		&model.Product{},
		&model.ProductDescription{},
		&model.SystemAsset{},
	)
}

func (r *ContentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContentRepositoryImpl) listPages(ctx context.Context, section entity.Section) ([]entity.ContentPage, error) {
	var models []*model.ContentPage
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.BySection{Section: section},
		specification.Omit{Columns: []string{"body", "image_data"}},
		specification.OrderBy{Field: "position"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list %s pages: %w", section, err)
	}

	pages := r.mapper.ToPageEntities(models)
	entity.SortPages(pages)
	return pages, nil
}

func (r *ContentRepositoryImpl) ListArticles(ctx context.Context) ([]entity.ContentPage, error) {
	return r.listPages(ctx, entity.SectionArticles)
}

func (r *ContentRepositoryImpl) ListInfoPages(ctx context.Context) ([]entity.ContentPage, error) {
	return r.listPages(ctx, entity.SectionInfo)
}

func (r *ContentRepositoryImpl) ListProducts(ctx context.Context) ([]entity.ProductRecord, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specification.OrderBy{Field: "position"})
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]entity.ProductRecord, 0, len(models))
	for _, m := range models {
		products = append(products, r.mapper.ToProductEntity(m))
	}
	return products, nil
}

func (r *ContentRepositoryImpl) ListProductDescriptions(ctx context.Context) ([]entity.ProductDescription, error) {
	var models []*model.ProductDescription
	query := r.applySpecifications(r.db.WithContext(ctx), specification.OrderBy{Field: "position"})
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list product descriptions: %w", err)
	}

	out := make([]entity.ProductDescription, 0, len(models))
	for _, m := range models {
		out = append(out, r.mapper.ToDescriptionEntity(m))
	}
	return out, nil
}

func (r *ContentRepositoryImpl) findPage(ctx context.Context, key string) (*model.ContentPage, error) {
	var m model.ContentPage
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByPageKey{Key: key})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.ErrContentNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *ContentRepositoryImpl) ReadBody(ctx context.Context, ref string) (string, error) {
	key, image, ok := mapper.ParseRef(ref)
	if !ok || image {
		return "", contract.ErrContentNotFound
	}
	m, err := r.findPage(ctx, key)
	if err != nil {
		return "", err
	}
	return m.Body, nil
}

func (r *ContentRepositoryImpl) ReadImage(ctx context.Context, ref string) (*entity.Attachment, error) {
	key, image, ok := mapper.ParseRef(ref)
	if !ok || !image {
		return nil, contract.ErrContentNotFound
	}
	m, err := r.findPage(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(m.ImageData) == 0 {
		return nil, contract.ErrContentNotFound
	}
	return &entity.Attachment{Name: key, MIMEType: m.ImageMime, Data: m.ImageData}, nil
}

func (r *ContentRepositoryImpl) findAsset(ctx context.Context, name string) (*model.SystemAsset, error) {
	var m model.SystemAsset
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByName{Name: name})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *ContentRepositoryImpl) ReadSystemText(ctx context.Context, name string) (string, error) {
	m, err := r.findAsset(ctx, name)
	if err != nil || m == nil {
		return "", err
	}
	return m.Text, nil
}

func (r *ContentRepositoryImpl) ReadLogo(ctx context.Context) (*entity.Attachment, error) {
	m, err := r.findAsset(ctx, contract.SystemLogo)
	if err != nil {
		return nil, err
	}
	if m == nil || len(m.Data) == 0 {
		return nil, contract.ErrContentNotFound
	}
	return &entity.Attachment{Name: m.Name, MIMEType: m.MimeType, Data: m.Data}, nil
}

func (r *ContentRepositoryImpl) ReadModelOverride(ctx context.Context) (string, error) {
	return r.ReadSystemText(ctx, ModelOverrideAsset)
}

// ImportStats counts what Import wrote.
type ImportStats struct {
	Pages        int
	Products     int
	Descriptions int
	Assets       int
}

// Import replaces the stored content with a full copy of src in one
// transaction.
func (r *ContentRepositoryImpl) Import(ctx context.Context, src contract.ContentRepository) (*ImportStats, error) {
	var pages []*model.ContentPage
	for _, list := range []func(context.Context) ([]entity.ContentPage, error){src.ListArticles, src.ListInfoPages} {
		found, err := list(ctx)
		if err != nil {
			return nil, err
		}
		for i, p := range found {
			body, err := src.ReadBody(ctx, p.BodyRef)
			if err != nil {
				return nil, fmt.Errorf("read body of %s: %w", p.ID, err)
			}
			var image *entity.Attachment
			if p.HasImage() {
				if image, err = src.ReadImage(ctx, p.ImageRef); err != nil && !errors.Is(err, contract.ErrContentNotFound) {
					return nil, fmt.Errorf("read image of %s: %w", p.ID, err)
				}
			}
			pages = append(pages, r.mapper.ToPageModel(p, i, body, image))
		}
	}

	productRecords, err := src.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*model.Product, 0, len(productRecords))
	for i, p := range productRecords {
		products = append(products, r.mapper.ToProductModel(p, i))
	}

	descriptionRecords, err := src.ListProductDescriptions(ctx)
	if err != nil {
		return nil, err
	}
	descriptions := make([]*model.ProductDescription, 0, len(descriptionRecords))
	for i, d := range descriptionRecords {
		descriptions = append(descriptions, r.mapper.ToDescriptionModel(d, i))
	}

	assets, err := collectAssets(ctx, src)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{&model.ContentPage{}, &model.Product{}, &model.ProductDescription{}, &model.SystemAsset{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return err
			}
		}
		if len(pages) > 0 {
			if err := tx.CreateInBatches(pages, 50).Error; err != nil {
				return err
			}
		}
		if len(products) > 0 {
			if err := tx.Create(&products).Error; err != nil {
				return err
			}
		}
		if len(descriptions) > 0 {
			if err := tx.Create(&descriptions).Error; err != nil {
				return err
			}
		}
		if len(assets) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&assets).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import content: %w", err)
	}

	return &ImportStats{
		Pages:        len(pages),
		Products:     len(products),
		Descriptions: len(descriptions),
		Assets:       len(assets),
	}, nil
}

func collectAssets(ctx context.Context, src contract.ContentRepository) ([]*model.SystemAsset, error) {
	var assets []*model.SystemAsset
	for _, name := range SystemAssetNames {
		text, err := src.ReadSystemText(ctx, name)
		if err != nil {
			return nil, err
		}
		if text != "" {
			assets = append(assets, &model.SystemAsset{Name: name, Text: text})
		}
	}

	override, err := src.ReadModelOverride(ctx)
	if err != nil {
		return nil, err
	}
	if override != "" {
		assets = append(assets, &model.SystemAsset{Name: ModelOverrideAsset, Text: override})
	}

	logo, err := src.ReadLogo(ctx)
	switch {
	case err == nil:
		assets = append(assets, &model.SystemAsset{Name: contract.SystemLogo, MimeType: logo.MIMEType, Data: logo.Data})
	case !errors.Is(err, contract.ErrContentNotFound):
		return nil, err
	}
	return assets, nil
}
