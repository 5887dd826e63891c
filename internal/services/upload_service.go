package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/sanitize"
	"upload-relay-api/internal/scratch"
)

// uploadService implements the UploadService interface
type uploadService struct {
	target    UploadTarget
	uploadCfg *config.UploadConfig
	validator *validator.Validate
}

// NewUploadService creates a new upload relay service instance
func NewUploadService(target UploadTarget, uploadCfg *config.UploadConfig) UploadService {
	return &uploadService{
		target:    target,
		uploadCfg: uploadCfg,
		validator: validator.New(),
	}
}

// RelayUpload sanitizes the upload metadata, stages the bytes in a scratch
// file and pushes them through the configured target. The scratch file is
// removed on every exit path.
func (s *uploadService) RelayUpload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil {
		return nil, BadRequest("upload request cannot be nil")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, BadRequest(fmt.Sprintf("validation failed: %v", err))
	}
	if s.uploadCfg.MaxBytes > 0 && req.Size > s.uploadCfg.MaxBytes {
		return nil, BadRequest(fmt.Sprintf("file size %d exceeds maximum of %d bytes", req.Size, s.uploadCfg.MaxBytes))
	}

	filename := sanitize.FileName(req.Filename)
	mimeType := sanitize.MimeType(req.MimeType)

	file, err := scratch.Write(s.uploadCfg.ScratchDir, req.Body)
	if err != nil {
		return nil, RemoteFailure("failed to stage upload", err)
	}
	defer file.Cleanup()

	logrus.WithFields(logrus.Fields{
		"filename":  filename,
		"mime_type": mimeType,
		"size":      file.Size,
	}).Info("Relaying upload")

	result, err := s.target.Upload(ctx, &StagedUpload{
		File:     file,
		Filename: filename,
		MimeType: mimeType,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"filename": filename,
			"error":    err.Error(),
		}).Error("Upload relay failed")
		return nil, err
	}

	result.Filename = filename
	result.MimeType = mimeType

	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"url":      result.URL,
		"id":       result.ID,
	}).Info("Upload relayed")

	return result, nil
}
