package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"ai-storefront/internal/entity"
	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/contract"
	"ai-storefront/pkg/render"
)

const (
	productFolder     = "product_data"
	productLinkFile   = "_link.txt"
	systemFolder      = "system_data"
	modelOverrideFile = "module_gemini.txt"
	bodyExtension     = ".html"
	titleExtension    = ".txt"
	textFileExtension = ".txt"
)

var orderPrefix = regexp.MustCompile(`^(\d+)`)

// ContentRepository scans the directory conventions of a content root.
// Refs handed out are slash-separated paths relative to the root.
type ContentRepository struct {
	root           string
	strictOrdering bool
	logger         logger.ILogger
}

var _ contract.ContentRepository = (*ContentRepository)(nil)

func NewContentRepository(root string, strictOrdering bool, log logger.ILogger) *ContentRepository {
	return &ContentRepository{
		root:           root,
		strictOrdering: strictOrdering,
		logger:         log,
	}
}

func (r *ContentRepository) ListArticles(ctx context.Context) ([]entity.ContentPage, error) {
	return r.ListPages(ctx, entity.SectionArticles)
}

func (r *ContentRepository) ListInfoPages(ctx context.Context) ([]entity.ContentPage, error) {
	return r.ListPages(ctx, entity.SectionInfo)
}

// ListPages enumerates the immediate subfolders of the section folder and
// keeps those holding both a body and a non-blank title.
func (r *ContentRepository) ListPages(ctx context.Context, section entity.Section) ([]entity.ContentPage, error) {
	sectionDir := filepath.Join(r.root, section.Folder())
	dirs, err := os.ReadDir(sectionDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.ContentPage{}, nil
		}
		return nil, fmt.Errorf("read section %s: %w", section, err)
	}

	pages := make([]entity.ContentPage, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !dir.IsDir() {
			continue
		}

		page, ok, err := r.scanPage(section, dir.Name())
		if err != nil {
			r.logger.Warn(logger.ModuleContent, "Skipping content folder", map[string]interface{}{
				"section": string(section),
				"folder":  dir.Name(),
				"error":   err.Error(),
			})
			continue
		}
		if ok {
			pages = append(pages, page)
		}
	}

	entity.SortPages(pages)
	return pages, nil
}

func (r *ContentRepository) scanPage(section entity.Section, dirName string) (entity.ContentPage, bool, error) {
	relDir := filepath.ToSlash(filepath.Join(section.Folder(), dirName))
	files, err := os.ReadDir(filepath.Join(r.root, relDir))
	if err != nil {
		return entity.ContentPage{}, false, err
	}

	var bodyFile, titleFile, imageFile string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		lower := strings.ToLower(name)
		switch {
		case strings.HasSuffix(lower, bodyExtension):
			if bodyFile == "" {
				bodyFile = name
			}
		case strings.HasSuffix(lower, titleExtension):
			if titleFile == "" {
				titleFile = name
			}
		case render.MIMEForPath(lower) != "":
			if imageFile == "" {
				imageFile = name
			}
		}
	}
	if bodyFile == "" || titleFile == "" {
		return entity.ContentPage{}, false, nil
	}

	title := r.readText(relDir + "/" + titleFile)
	if title == "" {
		return entity.ContentPage{}, false, nil
	}

	page := entity.ContentPage{
		ID:      section.PageID(dirName),
		Section: section,
		Title:   title,
		BodyRef: relDir + "/" + bodyFile,
	}
	if imageFile != "" {
		page.ImageRef = relDir + "/" + imageFile
	}

	order, ok, err := parseOrderKey(dirName)
	switch {
	case err != nil:
		if r.strictOrdering {
			return entity.ContentPage{}, false, err
		}
		r.logger.Warn(logger.ModuleContent, "Content folder order prefix is out of range, listing it last", map[string]interface{}{
			"page":  page.ID,
			"error": err.Error(),
		})
	case ok:
		page.Order = order
		page.HasOrder = true
	case r.strictOrdering:
		return entity.ContentPage{}, false, entity.ErrMissingOrderKey
	default:
		r.logger.Warn(logger.ModuleContent, "Content folder has no order prefix, listing it last", map[string]interface{}{
			"page": page.ID,
		})
	}

	return page, true, nil
}

// parseOrderKey reads the leading digit run of a folder name. A digit run
// that does not fit an int yields entity.ErrOrderKeyOutOfRange.
func parseOrderKey(dirName string) (int, bool, error) {
	m := orderPrefix.FindStringSubmatch(dirName)
	if m == nil {
		return 0, false, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", entity.ErrOrderKeyOutOfRange, m[1])
	}
	return n, true, nil
}

// ListProducts parses every flat text file of the product folder except the
// reserved link file. Files without any "key: value" line are skipped.
func (r *ContentRepository) ListProducts(ctx context.Context) ([]entity.ProductRecord, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, productFolder))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.ProductRecord{}, nil
		}
		return nil, fmt.Errorf("read products: %w", err)
	}

	products := make([]entity.ProductRecord, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || e.Name() == productLinkFile || !strings.HasSuffix(e.Name(), textFileExtension) {
			continue
		}

		content := r.readText(productFolder + "/" + e.Name())
		record, ok := entity.ParseProductRecord(strings.TrimSuffix(e.Name(), textFileExtension), content)
		if !ok {
			continue
		}
		products = append(products, record)
	}

	return products, nil
}

// ListProductDescriptions reads one description per product subfolder, made
// of all its text files in name order.
func (r *ContentRepository) ListProductDescriptions(ctx context.Context) ([]entity.ProductDescription, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, productFolder))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.ProductDescription{}, nil
		}
		return nil, fmt.Errorf("read product folders: %w", err)
	}

	descriptions := make([]entity.ProductDescription, 0)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() {
			continue
		}

		relDir := productFolder + "/" + e.Name()
		files, err := os.ReadDir(filepath.Join(r.root, relDir))
		if err != nil {
			continue
		}

		var parts []string
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), textFileExtension) {
				continue
			}
			if text := r.readText(relDir + "/" + f.Name()); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 {
			continue
		}

		descriptions = append(descriptions, entity.ProductDescription{
			Product: e.Name(),
			Text:    strings.Join(parts, "\n"),
		})
	}

	return descriptions, nil
}

func (r *ContentRepository) ReadBody(ctx context.Context, ref string) (string, error) {
	path, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", contract.ErrContentNotFound
		}
		return "", fmt.Errorf("read body %s: %w", ref, err)
	}
	return string(data), nil
}

func (r *ContentRepository) ReadImage(ctx context.Context, ref string) (*entity.Attachment, error) {
	mime := render.MIMEForPath(ref)
	if mime == "" {
		return nil, contract.ErrContentNotFound
	}
	path, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, contract.ErrContentNotFound
		}
		return nil, fmt.Errorf("read image %s: %w", ref, err)
	}
	return &entity.Attachment{
		Name:     filepath.Base(path),
		MIMEType: mime,
		Data:     data,
	}, nil
}

func (r *ContentRepository) ReadSystemText(ctx context.Context, name string) (string, error) {
	return r.readText(systemFolder + "/" + name), nil
}

func (r *ContentRepository) ReadLogo(ctx context.Context) (*entity.Attachment, error) {
	return r.ReadImage(ctx, systemFolder+"/"+contract.SystemLogo)
}

func (r *ContentRepository) ReadModelOverride(ctx context.Context) (string, error) {
	return r.readText(modelOverrideFile), nil
}

// readText returns the trimmed file content, or "" when it cannot be read.
func (r *ContentRepository) readText(ref string) string {
	path, err := r.resolve(ref)
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// resolve maps a ref to a path, refusing anything that escapes the root.
func (r *ContentRepository) resolve(ref string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if ref == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", contract.ErrContentNotFound
	}
	return filepath.Join(r.root, clean), nil
}
