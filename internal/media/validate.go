package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes     = 5 * 1024 * 1024
	DefaultMaxDimension = 8192
)

var (
	ErrNotAnImage  = errors.New("media: file is not a supported image")
	ErrImageTooBig = errors.New("media: image exceeds size limits")
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// Validated is an upload whose bytes have been read and checked.
type Validated struct {
	Bytes       []byte
	ContentType string
	Format      string
}

// ValidateImage fully reads the upload and checks that it decodes as JPEG,
// PNG, GIF, or WebP and stays within the byte and pixel-dimension limits.
// KYC documents and payment screenshots go through this before hitting
// object storage so the buckets only ever hold displayable images.
func ValidateImage(upload Upload, maxBytes int64, maxDimension int) (*Validated, error) {
	if upload.Reader == nil {
		return nil, errors.New("media: empty reader")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if upload.Size > maxBytes {
		return nil, ErrImageTooBig
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooBig
	}
	if len(data) == 0 {
		return nil, errors.New("media: empty upload")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}
	if cfg.Width > maxDimension || cfg.Height > maxDimension {
		return nil, ErrImageTooBig
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "image/" + format
	}
	return &Validated{Bytes: data, ContentType: contentType, Format: format}, nil
}
