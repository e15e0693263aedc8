package mapper

import (
	"testing"

	"ai-storefront/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantKey   string
		wantImage bool
		wantOK    bool
	}{
		{"page:03bai_viet_001-a", "03bai_viet_001-a", false, true},
		{"page:03bai_viet_001-a#image", "03bai_viet_001-a", true, true},
		{"page:", "", false, false},
		{"page:#image", "", true, false},
		{"03bai_viet/001-a/index.html", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			key, image, ok := ParseRef(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantImage, image)
			}
		})
	}
}

func TestContentMapper_Page(t *testing.T) {
	m := NewContentMapper()
	page := entity.ContentPage{
		ID:       "trang_thong_tin_001-gioi-thieu",
		Section:  entity.SectionInfo,
		Order:    1,
		HasOrder: true,
		Title:    "Giới thiệu",
	}

	row := m.ToPageModel(page, 3, "<p>x</p>", &entity.Attachment{MIMEType: "image/png", Data: []byte{1}})
	require.NotNil(t, row.OrderKey)
	assert.Equal(t, 1, *row.OrderKey)
	assert.Equal(t, 3, row.Position)
	assert.Equal(t, "info", row.Section)

	back := m.ToPageEntity(row)
	assert.Equal(t, page.ID, back.ID)
	assert.True(t, back.HasOrder)
	assert.Equal(t, "page:trang_thong_tin_001-gioi-thieu", back.BodyRef)
	assert.Equal(t, "page:trang_thong_tin_001-gioi-thieu#image", back.ImageRef)

	noImage := m.ToPageEntity(m.ToPageModel(entity.ContentPage{ID: "x"}, 0, "", nil))
	assert.False(t, noImage.HasImage())
	assert.False(t, noImage.HasOrder)
}

func TestContentMapper_Product(t *testing.T) {
	m := NewContentMapper()
	rec := entity.ProductRecord{Name: "ao", Fields: map[string]string{"gia": "199k"}, Source: "Giá: 199k"}

	back := m.ToProductEntity(m.ToProductModel(rec, 0))
	assert.Equal(t, rec, back)
}
