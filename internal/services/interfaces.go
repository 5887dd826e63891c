package services

import (
	"context"
	"io"

	"upload-relay-api/internal/scratch"
)

// UploadRequest carries one parsed multipart upload into the relay pipeline.
// Filename and MimeType are caller-declared and untrusted; the service
// sanitizes both before they reach any remote call.
type UploadRequest struct {
	Filename string
	MimeType string
	Body     io.Reader `validate:"required"`
	Size     int64     `validate:"gte=0"`
}

// UploadResult is the normalized record returned to the caller on success.
type UploadResult struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// StagedUpload is the sanitized, on-disk form of an upload handed to a
// target. The scratch file outlives every remote call the target makes
// and is cleaned up by the service, not the target.
type StagedUpload struct {
	File     *scratch.File
	Filename string
	MimeType string
}

// UploadTarget pushes one staged upload to a remote storage backend and
// returns its addressable record. Implementations must not retry.
type UploadTarget interface {
	Upload(ctx context.Context, upload *StagedUpload) (*UploadResult, error)
}

// UploadService relays one upload through sanitization, scratch storage
// and the configured target.
type UploadService interface {
	RelayUpload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
}
