package uploads

import (
	"context"
	"io"

	"github.com/filingkart/filingkart/internal/wizard"
)

// WizardUploader adapts the UploadService to the wizard engine's upload
// collaborator contract.
type WizardUploader struct {
	service *UploadService
}

func NewWizardUploader(service *UploadService) *WizardUploader {
	return &WizardUploader{service: service}
}

func (u *WizardUploader) Upload(ctx context.Context, category, filename string, content io.Reader) (*wizard.UploadResult, error) {
	metadata, err := u.service.Upload(ctx, category, filename, content, -1, "")
	if err != nil {
		return nil, err
	}
	return &wizard.UploadResult{
		FileURL:      metadata.URL,
		FileID:       metadata.ID.String(),
		OriginalName: metadata.Name,
	}, nil
}
