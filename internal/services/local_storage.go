package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	appconfig "stagepass/internal/config"
)

// LocalStorageService stores files on the local filesystem. Used in
// development and as a fallback when R2 is not configured.
type LocalStorageService struct {
	basePath string
	baseURL  string
}

// NewLocalStorageService creates a new local storage service
func NewLocalStorageService(basePath, baseURL string) *LocalStorageService {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Printf("failed to create storage directory %s: %v", basePath, err)
	}

	return &LocalStorageService{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// Upload saves a file to local storage
func (f *LocalStorageService) Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error) {
	key = strings.TrimPrefix(key, "/")
	fullPath := filepath.Join(f.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	if size > 0 && written != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, wrote %d", size, written)
	}

	return f.GetURL(key), nil
}

// Delete removes a file from local storage
func (f *LocalStorageService) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	fullPath := filepath.Join(f.basePath, key)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	return nil
}

// GetURL returns the public URL for a stored file
func (f *LocalStorageService) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", f.baseURL, strings.TrimPrefix(key, "/"))
}

// Exists checks whether a file exists in local storage
func (f *LocalStorageService) Exists(ctx context.Context, key string) (bool, error) {
	key = strings.TrimPrefix(key, "/")

	_, err := os.Stat(filepath.Join(f.basePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// NewStorageService picks R2 when credentials are configured and falls
// back to local storage otherwise.
func NewStorageService(cfg appconfig.R2Config, localPath, localURL string) StorageService {
	r2, err := NewR2Service(cfg)
	if err == nil {
		return r2
	}

	log.Printf("object storage unavailable (%v), using local storage at %s", err, localPath)
	return NewLocalStorageService(localPath, localURL)
}
