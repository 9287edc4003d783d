package drivers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalFSDriverCategoryAndHashing(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalFSDriver(tempDir, "/api/uploads")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "fssai_license/abcdef123456.pdf"
	content := []byte("test content")

	if err := driver.Save(ctx, key, bytes.NewReader(content), "application/pdf"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Category becomes a directory, uuid part is hashed two levels deep.
	expected := filepath.Join(tempDir, "fssai_license", "ab", "cd", "abcdef123456.pdf")
	if _, err := os.Stat(expected); os.IsNotExist(err) {
		t.Errorf("file not found at hashed path: %s", expected)
	}

	reader, contentType, err := driver.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()
	got, _ := io.ReadAll(reader)
	if !bytes.Equal(got, content) {
		t.Error("content mismatch on Get")
	}
	if contentType != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %s", contentType)
	}

	url, err := driver.GenerateURL(ctx, key, 0)
	if err != nil {
		t.Fatalf("GenerateURL failed: %v", err)
	}
	if !strings.HasSuffix(url, key) || !strings.HasPrefix(url, "/api/uploads/") {
		t.Errorf("unexpected URL: %s", url)
	}

	if err := driver.Delete(ctx, key); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, err := os.Stat(expected); !os.IsNotExist(err) {
		t.Error("file still exists after deletion")
	}

	// Deleting a missing key is not an error.
	if err := driver.Delete(ctx, key); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}

func TestLocalFSDriverShortKey(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	if err := driver.Save(ctx, "kyc/ab", bytes.NewReader([]byte("x")), "text/plain"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reader, _, err := driver.Get(ctx, "kyc/ab")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	reader.Close()
}
