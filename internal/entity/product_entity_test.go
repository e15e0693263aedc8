package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductRecord(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantOK     bool
		wantFields map[string]string
	}{
		{
			name:       "two fields",
			content:    "Tên: Áo thun\nGiá: 200k",
			wantOK:     true,
			wantFields: map[string]string{"tên": "Áo thun", "giá": "200k"},
		},
		{
			name:       "value keeps later colons",
			content:    "Link Mua: https://shop.example/ao",
			wantOK:     true,
			wantFields: map[string]string{"link_mua": "https://shop.example/ao"},
		},
		{
			name:       "mixed lines",
			content:    "Mô tả dài không có dấu\nMàu Sắc : Trắng\r\n",
			wantOK:     true,
			wantFields: map[string]string{"màu_sắc": "Trắng"},
		},
		{name: "no colon", content: "chỉ có chữ", wantOK: false},
		{name: "empty", content: "  \n ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProductRecord("p", tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFields, got.Fields)
			}
		})
	}
}

func TestProductRecord_Field(t *testing.T) {
	p, ok := ParseProductRecord("p", "Giá Bán: 150k")
	assert.True(t, ok)

	v, found := p.Field("Giá bán")
	assert.True(t, found)
	assert.Equal(t, "150k", v)
}

func TestSortPages(t *testing.T) {
	pages := []ContentPage{
		{ID: "none-1"},
		{ID: "b", Order: 2, HasOrder: true},
		{ID: "a", Order: 1, HasOrder: true},
		{ID: "none-2"},
		{ID: "b2", Order: 2, HasOrder: true},
	}

	SortPages(pages)

	var ids []string
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "b2", "none-1", "none-2"}, ids)
}

func TestSectionForPageID(t *testing.T) {
	s, ok := SectionForPageID("trang_thong_tin_001-gioi-thieu")
	assert.True(t, ok)
	assert.Equal(t, SectionInfo, s)

	s, ok = SectionForPageID("03bai_viet_004")
	assert.True(t, ok)
	assert.Equal(t, SectionArticles, s)

	_, ok = SectionForPageID("elsewhere_1")
	assert.False(t, ok)
}
