package services

import (
	"context"
	"io"
	"time"
)

// StorageService defines the interface for object storage operations
type StorageService interface {
	// Upload stores a file and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)

	// Delete removes a file from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored file
	GetURL(key string) string

	// Exists checks whether a file exists in storage
	Exists(ctx context.Context, key string) (bool, error)
}

// PosterMetadata describes an uploaded poster image
type PosterMetadata struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PosterVariant is one resized rendition of a poster
type PosterVariant struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

// PosterUploadResult is the outcome of a poster upload
type PosterUploadResult struct {
	Original PosterMetadata  `json:"original"`
	Variants []PosterVariant `json:"variants"`
}
