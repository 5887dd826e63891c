package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"upload-relay-api/internal/config"
)

// stubTarget records the staged upload it receives and answers with a
// canned result or error.
type stubTarget struct {
	got    *StagedUpload
	bytes  []byte
	result *UploadResult
	err    error
}

func (s *stubTarget) Upload(ctx context.Context, upload *StagedUpload) (*UploadResult, error) {
	s.got = upload
	f, err := upload.File.Open()
	if err == nil {
		buf := make([]byte, upload.File.Size)
		f.Read(buf)
		f.Close()
		s.bytes = buf
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newService(t *testing.T, target UploadTarget, maxBytes int64) UploadService {
	t.Helper()
	return NewUploadService(target, &config.UploadConfig{
		Provider:   "shopify",
		MaxBytes:   maxBytes,
		ScratchDir: t.TempDir(),
	})
}

func TestRelayUploadSanitizesMetadata(t *testing.T) {
	target := &stubTarget{result: &UploadResult{URL: "https://cdn.example.com/a.jpg", ID: "gid://1"}}
	svc := newService(t, target, 0)

	result, err := svc.RelayUpload(context.Background(), &UploadRequest{
		Filename: "My Photo!!.HEIC",
		MimeType: "image/heic",
		Body:     strings.NewReader("0123456789"),
		Size:     10,
	})
	if err != nil {
		t.Fatalf("RelayUpload: %v", err)
	}

	if target.got.Filename != "my-photo.jpg" {
		t.Errorf("staged filename = %q, want %q", target.got.Filename, "my-photo.jpg")
	}
	if target.got.MimeType != "image/jpeg" {
		t.Errorf("staged mime type = %q, want %q", target.got.MimeType, "image/jpeg")
	}
	if target.got.File.Size != 10 {
		t.Errorf("staged size = %d, want 10", target.got.File.Size)
	}
	if string(target.bytes) != "0123456789" {
		t.Errorf("staged bytes = %q", target.bytes)
	}

	if result.URL != "https://cdn.example.com/a.jpg" || result.ID != "gid://1" {
		t.Errorf("result = %+v, want target record", result)
	}
	if result.Filename != "my-photo.jpg" || result.MimeType != "image/jpeg" {
		t.Errorf("result metadata = %q/%q, want sanitized values", result.Filename, result.MimeType)
	}
}

func TestRelayUploadCleansScratchFileOnSuccess(t *testing.T) {
	target := &stubTarget{result: &UploadResult{URL: "https://x", ID: "1"}}
	svc := newService(t, target, 0)

	if _, err := svc.RelayUpload(context.Background(), &UploadRequest{
		Filename: "a.jpg", MimeType: "image/jpeg", Body: strings.NewReader("x"), Size: 1,
	}); err != nil {
		t.Fatalf("RelayUpload: %v", err)
	}

	if _, err := os.Stat(target.got.File.Path); !os.IsNotExist(err) {
		t.Errorf("scratch file %q still exists after success", target.got.File.Path)
	}
}

func TestRelayUploadCleansScratchFileOnFailure(t *testing.T) {
	target := &stubTarget{err: RemoteFailure("staged upload transfer returned status 403", nil)}
	svc := newService(t, target, 0)

	_, err := svc.RelayUpload(context.Background(), &UploadRequest{
		Filename: "a.jpg", MimeType: "image/jpeg", Body: strings.NewReader("x"), Size: 1,
	})
	if err == nil {
		t.Fatal("RelayUpload succeeded, want target failure")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %q, want upstream status included", err.Error())
	}

	if _, statErr := os.Stat(target.got.File.Path); !os.IsNotExist(statErr) {
		t.Errorf("scratch file %q still exists after failure", target.got.File.Path)
	}
}

func TestRelayUploadRejectsOversizedFile(t *testing.T) {
	target := &stubTarget{result: &UploadResult{}}
	svc := newService(t, target, 5)

	_, err := svc.RelayUpload(context.Background(), &UploadRequest{
		Filename: "a.jpg", MimeType: "image/jpeg", Body: strings.NewReader("0123456789"), Size: 10,
	})
	if err == nil {
		t.Fatal("RelayUpload succeeded, want size rejection")
	}

	var relayErr *RelayError
	if !errors.As(err, &relayErr) || relayErr.Code != http.StatusBadRequest {
		t.Errorf("error = %v, want 400 RelayError", err)
	}
	if target.got != nil {
		t.Error("target was called for an oversized file")
	}
}

func TestRelayUploadRejectsNilRequest(t *testing.T) {
	svc := newService(t, &stubTarget{}, 0)

	_, err := svc.RelayUpload(context.Background(), nil)
	var relayErr *RelayError
	if !errors.As(err, &relayErr) || relayErr.Code != http.StatusBadRequest {
		t.Errorf("error = %v, want 400 RelayError", err)
	}
}

func TestRelayUploadRejectsMissingBody(t *testing.T) {
	svc := newService(t, &stubTarget{}, 0)

	_, err := svc.RelayUpload(context.Background(), &UploadRequest{Filename: "a.jpg"})
	var relayErr *RelayError
	if !errors.As(err, &relayErr) || relayErr.Code != http.StatusBadRequest {
		t.Errorf("error = %v, want 400 RelayError", err)
	}
}

func TestRelayErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := RemoteFailure("staged upload transfer failed", inner)

	if !errors.Is(err, inner) {
		t.Error("RemoteFailure does not unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error = %q, want inner diagnostic included", err.Error())
	}
}
