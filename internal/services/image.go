package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImageService processes and stores event poster images
type ImageService struct {
	storage StorageService
}

// NewImageService creates a new image service
func NewImageService(storage StorageService) *ImageService {
	return &ImageService{storage: storage}
}

// PosterVariantConfig defines one rendition size
type PosterVariantConfig struct {
	Name   string
	Width  int
	Height int
}

// Poster renditions generated for every upload
var posterVariants = []PosterVariantConfig{
	{Name: "thumb", Width: 200, Height: 300},
	{Name: "card", Width: 400, Height: 600},
	{Name: "full", Width: 1000, Height: 1500},
}

const (
	maxPosterBytes = 10 << 20 // 10 MB
	jpegQuality    = 85
)

// UploadPoster validates, resizes and stores a poster image, producing
// the original plus the standard renditions. Returns the stored
// original's metadata and variant URLs.
func (s *ImageService) UploadPoster(ctx context.Context, reader io.Reader, filename string) (*PosterUploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxPosterBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if len(data) > maxPosterBytes {
		return nil, fmt.Errorf("poster image exceeds the %d MB limit", maxPosterBytes>>20)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	bounds := img.Bounds()
	baseKey := fmt.Sprintf("posters/%s", uuid.New().String())
	originalKey := baseKey + "/original" + extensionFor(format)

	contentType := "image/" + format
	url, err := s.storage.Upload(ctx, originalKey, bytes.NewReader(data), contentType, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to store original poster: %w", err)
	}

	result := &PosterUploadResult{
		Original: PosterMetadata{
			Key:         originalKey,
			URL:         url,
			Size:        int64(len(data)),
			ContentType: contentType,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			UploadedAt:  time.Now(),
		},
	}

	for _, variant := range posterVariants {
		resized := imaging.Fit(img, variant.Width, variant.Height, imaging.Lanczos)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode %s variant: %w", variant.Name, err)
		}

		key := fmt.Sprintf("%s/%s.jpg", baseKey, variant.Name)
		variantURL, err := s.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			return nil, fmt.Errorf("failed to store %s variant: %w", variant.Name, err)
		}

		vb := resized.Bounds()
		result.Variants = append(result.Variants, PosterVariant{
			Name:   variant.Name,
			Width:  vb.Dx(),
			Height: vb.Dy(),
			Key:    key,
			URL:    variantURL,
		})
	}

	return result, nil
}

// DeletePoster removes a poster and all of its renditions
func (s *ImageService) DeletePoster(ctx context.Context, originalKey string) error {
	baseKey := originalKey
	if idx := strings.LastIndex(originalKey, "/original"); idx >= 0 {
		baseKey = originalKey[:idx]
	}

	if err := s.storage.Delete(ctx, originalKey); err != nil {
		return err
	}

	for _, variant := range posterVariants {
		key := fmt.Sprintf("%s/%s.jpg", baseKey, variant.Name)
		if err := s.storage.Delete(ctx, key); err != nil {
			return err
		}
	}

	return nil
}

func extensionFor(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}
