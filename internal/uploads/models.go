package uploads

import (
	"time"

	"github.com/google/uuid"
)

// FileMetadata describes one stored document.
type FileMetadata struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"originalName"`
	Category   string    `json:"category"`
	Key        string    `json:"key"`
	URL        string    `json:"fileUrl"`
	Size       int64     `json:"size,omitempty"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
}
