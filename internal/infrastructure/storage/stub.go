package storage

import (
	"context"
	"errors"
	"time"

	terminationapp "github.com/leasedesk/backend/internal/application/termination"
)

// StubAttachmentStore is a placeholder implementation of AttachmentStore.
// Use this for development when no S3-compatible backend is configured.
type StubAttachmentStore struct {
	// BaseURL is the base URL for generating upload/download URLs
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
}

// NewStubAttachmentStore creates a new StubAttachmentStore
func NewStubAttachmentStore() *StubAttachmentStore {
	return &StubAttachmentStore{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubAttachmentStore implements AttachmentStore
var _ terminationapp.AttachmentStore = (*StubAttachmentStore)(nil)

// PresignUpload generates a stub presigned URL for uploading an attachment
func (s *StubAttachmentStore) PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// PresignDownload generates a stub presigned URL for downloading an attachment
func (s *StubAttachmentStore) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// Delete is a no-op stub that always succeeds
func (s *StubAttachmentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
