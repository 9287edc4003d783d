package wizard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// UploadStatus is the lifecycle state of one document slot's upload.
type UploadStatus string

const (
	UploadStatusEmpty     UploadStatus = "EMPTY"
	UploadStatusUploading UploadStatus = "UPLOADING"
	UploadStatusDone      UploadStatus = "DONE"
	UploadStatusError     UploadStatus = "ERROR"
)

// UploadState tracks the upload for a single slot. After a failed retry
// the file fields keep the values of the last successful upload, so an
// earlier DONE is not lost until a retry replaces it.
type UploadState struct {
	SlotID       string       `json:"slotId"`
	Status       UploadStatus `json:"status"`
	FileURL      string       `json:"fileUrl,omitempty"`
	FileID       string       `json:"fileId,omitempty"`
	OriginalName string       `json:"originalName,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// UploadResult is what the upload collaborator returns on success.
type UploadResult struct {
	FileURL      string `json:"fileUrl"`
	FileID       string `json:"id"`
	OriginalName string `json:"originalName"`
}

// Uploader is the external file-upload collaborator. Implementations
// store the content under the given category and return its metadata.
type Uploader interface {
	Upload(ctx context.Context, category, filename string, content io.Reader) (*UploadResult, error)
}

// UploadCoordinator tracks per-slot upload state for one wizard session.
// Uploads for distinct slots may run concurrently; a second upload for a
// slot that is still UPLOADING is rejected. Every attempt is bounded by
// the configured timeout so a hung collaborator surfaces as ERROR instead
// of a slot stuck in UPLOADING.
type UploadCoordinator struct {
	mu       sync.Mutex
	uploader Uploader
	timeout  time.Duration
	states   map[string]UploadState
}

// DefaultUploadTimeout bounds a single upload attempt.
const DefaultUploadTimeout = 30 * time.Second

// NewUploadCoordinator wraps uploader. A non-positive timeout falls back
// to DefaultUploadTimeout.
func NewUploadCoordinator(uploader Uploader, timeout time.Duration) *UploadCoordinator {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &UploadCoordinator{
		uploader: uploader,
		timeout:  timeout,
		states:   make(map[string]UploadState),
	}
}

// BeginUpload uploads content for slotID and returns the resulting state.
// The slot transitions to UPLOADING synchronously, then to DONE or ERROR
// when the collaborator resolves. Failures are retryable: the caller
// re-invokes BeginUpload with fresh content.
func (c *UploadCoordinator) BeginUpload(ctx context.Context, slotID, category, filename string, content io.Reader) (UploadState, error) {
	c.mu.Lock()
	current := c.stateLocked(slotID)
	if current.Status == UploadStatusUploading {
		c.mu.Unlock()
		return current, fmt.Errorf("upload already in progress for slot %s", slotID)
	}
	current.Status = UploadStatusUploading
	current.Error = ""
	c.states[slotID] = current
	c.mu.Unlock()

	uploadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.uploader.Upload(uploadCtx, category, filename, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.stateLocked(slotID)
	if err != nil {
		// Keep the previous DONE file fields so a failed retry does not
		// clobber an earlier successful upload.
		state.Status = UploadStatusError
		state.Error = err.Error()
		c.states[slotID] = state
		slog.Warn("document upload failed", "slot", slotID, "category", category, "error", err)
		return state, err
	}

	state.Status = UploadStatusDone
	state.FileURL = result.FileURL
	state.FileID = result.FileID
	state.OriginalName = result.OriginalName
	state.Error = ""
	c.states[slotID] = state
	slog.Info("document uploaded", "slot", slotID, "category", category, "fileId", result.FileID)
	return state, nil
}

// State returns the current state for slotID. Slots never uploaded to
// report EMPTY.
func (c *UploadCoordinator) State(slotID string) UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(slotID)
}

// States returns a copy of all tracked slot states.
func (c *UploadCoordinator) States() map[string]UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]UploadState, len(c.states))
	for id, state := range c.states {
		out[id] = state
	}
	return out
}

func (c *UploadCoordinator) stateLocked(slotID string) UploadState {
	if state, ok := c.states[slotID]; ok {
		return state
	}
	return UploadState{SlotID: slotID, Status: UploadStatusEmpty}
}
