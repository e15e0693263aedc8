package controller

import (
	"fmt"
	"io"

	"ai-storefront/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// readUpload returns the uploaded file of field, or nil when none was sent.
// Reads stop one byte past maxBytes so oversize files are still rejected by
// validation without buffering them whole.
func readUpload(ctx *fiber.Ctx, field string, maxBytes int) (*entity.Attachment, error) {
	fh, err := ctx.FormFile(field)
	if err != nil || fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &entity.Attachment{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get(fiber.HeaderContentType),
		Data:     data,
	}, nil
}
