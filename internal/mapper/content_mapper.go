package mapper

import (
	"strings"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/model"

	"gorm.io/datatypes"
)

const (
	pageRefPrefix  = "page:"
	imageRefSuffix = "#image"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

// BodyRef and ImageRef address a stored page in the database backend.
func BodyRef(key string) string {
	return pageRefPrefix + key
}

func ImageRef(key string) string {
	return pageRefPrefix + key + imageRefSuffix
}

// ParseRef returns the page key of a database ref and whether it points at
// the page image.
func ParseRef(ref string) (key string, image bool, ok bool) {
	rest, found := strings.CutPrefix(ref, pageRefPrefix)
	if !found || rest == "" {
		return "", false, false
	}
	if k, isImage := strings.CutSuffix(rest, imageRefSuffix); isImage {
		return k, true, k != ""
	}
	return rest, false, true
}

func (m *ContentMapper) ToPageEntity(p *model.ContentPage) entity.ContentPage {
	page := entity.ContentPage{
		ID:      p.Key,
		Section: entity.Section(p.Section),
		Title:   p.Title,
		BodyRef: BodyRef(p.Key),
	}
	if p.OrderKey != nil {
		page.Order = *p.OrderKey
		page.HasOrder = true
	}
	// List queries omit image_data, the mime column marks an image
	if p.ImageMime != "" {
		page.ImageRef = ImageRef(p.Key)
	}
	return page
}

func (m *ContentMapper) ToPageEntities(models []*model.ContentPage) []entity.ContentPage {
	pages := make([]entity.ContentPage, 0, len(models))
	for _, p := range models {
		pages = append(pages, m.ToPageEntity(p))
	}
	return pages
}

func (m *ContentMapper) ToPageModel(page entity.ContentPage, position int, body string, image *entity.Attachment) *model.ContentPage {
	out := &model.ContentPage{
		Key:      page.ID,
		Section:  string(page.Section),
		Position: position,
		Title:    page.Title,
		Body:     body,
	}
	if page.HasOrder {
		order := page.Order
		out.OrderKey = &order
	}
	if image != nil {
		out.ImageMime = image.MIMEType
		out.ImageData = image.Data
	}
	return out
}

func (m *ContentMapper) ToProductEntity(p *model.Product) entity.ProductRecord {
	fields := make(map[string]string, len(p.Fields))
	for k, v := range p.Fields {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return entity.ProductRecord{
		Name:   p.Name,
		Fields: fields,
		Source: p.Source,
	}
}

func (m *ContentMapper) ToProductModel(p entity.ProductRecord, position int) *model.Product {
	fields := make(datatypes.JSONMap, len(p.Fields))
	for k, v := range p.Fields {
		fields[k] = v
	}
	return &model.Product{
		Name:     p.Name,
		Fields:   fields,
		Source:   p.Source,
		Position: position,
	}
}

func (m *ContentMapper) ToDescriptionEntity(d *model.ProductDescription) entity.ProductDescription {
	return entity.ProductDescription{Product: d.Product, Text: d.Text}
}

func (m *ContentMapper) ToDescriptionModel(d entity.ProductDescription, position int) *model.ProductDescription {
	return &model.ProductDescription{Product: d.Product, Text: d.Text, Position: position}
}
