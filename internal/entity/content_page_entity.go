package entity

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingOrderKey    = errors.New("content page folder has no numeric order prefix")
	ErrOrderKeyOutOfRange = errors.New("content page folder order prefix is out of range")
)

// Section identifies one of the two page collections of the content store.
type Section string

const (
	SectionArticles Section = "articles"
	SectionInfo     Section = "info"
)

// Folder is the content-root relative directory holding the section's pages.
func (s Section) Folder() string {
	switch s {
	case SectionArticles:
		return "03bai_viet"
	case SectionInfo:
		return "trang_thong_tin"
	default:
		return ""
	}
}

// IDPrefix is prepended to every page id of the section.
func (s Section) IDPrefix() string {
	return strings.ReplaceAll(s.Folder(), "/", "_") + "_"
}

// PageID derives the stable page identifier from the page folder name.
func (s Section) PageID(dirName string) string {
	return s.IDPrefix() + dirName
}

// SectionForPageID resolves the section a page id belongs to.
func SectionForPageID(id string) (Section, bool) {
	for _, s := range []Section{SectionArticles, SectionInfo} {
		if strings.HasPrefix(id, s.IDPrefix()) {
			return s, true
		}
	}
	return "", false
}

type ContentPage struct {
	ID       string
	Section  Section
	Order    int
	HasOrder bool
	Title    string
	BodyRef  string
	ImageRef string
}

func (p ContentPage) HasImage() bool {
	return p.ImageRef != ""
}

// SortPages orders pages ascending by order key. Pages without a key go last.
// Equal keys keep their discovery order.
func SortPages(pages []ContentPage) {
	sort.SliceStable(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		if a.HasOrder != b.HasOrder {
			return a.HasOrder
		}
		return a.Order < b.Order
	})
}
