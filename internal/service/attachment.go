package service

import (
	"errors"
	"fmt"

	"ai-storefront/internal/entity"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidAttachment = errors.New("invalid attachment")

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp"}

// ValidateAttachment sniffs the upload content and returns a copy carrying
// the detected MIME type. The client supplied type is ignored.
func ValidateAttachment(upload *entity.Attachment, maxBytes int) (*entity.Attachment, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidAttachment)
	}
	if maxBytes > 0 && len(upload.Data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidAttachment, len(upload.Data), maxBytes)
	}

	detected := mimetype.Detect(upload.Data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return &entity.Attachment{
				Name:     upload.Name,
				MIMEType: allowed,
				Data:     upload.Data,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported type %s", ErrInvalidAttachment, detected.String())
}
