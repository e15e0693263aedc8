package specification

import (
	"ai-storefront/internal/entity"

	"gorm.io/gorm"
)

// BySection filters content pages of one section
type BySection struct {
	Section entity.Section
}

func (s BySection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("section = ?", string(s.Section))
}

// ByPageKey filters content pages by their public page id
type ByPageKey struct {
	Key string
}

func (s ByPageKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}

// ByName filters by the name column (products, system assets)
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// Omit leaves heavy columns out of list queries
type Omit struct {
	Columns []string
}

func (s Omit) Apply(db *gorm.DB) *gorm.DB {
	return db.Omit(s.Columns...)
}
