package uploads

import (
	"context"
	"io"
	"time"
)

// StorageDriver is the binary storage behind document uploads. Keys are
// category-prefixed ("fssai_license/ab12...pdf") so one service's
// documents stay together regardless of driver.
type StorageDriver interface {
	// Save writes the content under key.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get streams the file back along with its content type.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GenerateURL returns a public-facing URL for the key.
	GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
