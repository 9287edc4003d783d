package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var categoryPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// UploadService stores documents via a StorageDriver and returns their
// metadata. Keys are minted from a uuid so filenames never collide or
// leak into storage paths.
type UploadService struct {
	Driver StorageDriver
}

func NewUploadService(driver StorageDriver) *UploadService {
	return &UploadService{Driver: driver}
}

// Upload saves the content under a fresh key in the given category.
// A negative size means the caller does not know the content length.
func (s *UploadService) Upload(ctx context.Context, category, filename string, reader io.Reader, size int64, mime string) (*FileMetadata, error) {
	if !categoryPattern.MatchString(category) {
		return nil, fmt.Errorf("invalid upload category %q", category)
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	id := uuid.New()
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", category, id.String(), ext)

	if err := s.Driver.Save(ctx, key, reader, mime); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up orphaned file", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	metadata := &FileMetadata{
		ID:         id,
		Name:       filename,
		Category:   category,
		Key:        key,
		URL:        url,
		MimeType:   mime,
		UploadedAt: time.Now().UTC(),
	}
	if size >= 0 {
		metadata.Size = size
	}

	slog.InfoContext(ctx, "document stored", "id", id, "key", key, "category", category)
	return metadata, nil
}

// Download streams a stored document and its content type.
func (s *UploadService) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, key)
}
