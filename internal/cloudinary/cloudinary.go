package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/services"
)

// Target relays uploads to Cloudinary's image upload endpoint with a
// single signed POST. UploadURL and HTTPClient are exported so tests can
// point the target at a fake server.
type Target struct {
	UploadURL  string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client

	// Now is the clock used for the signed timestamp; tests may pin it.
	Now func() time.Time
}

// NewTarget creates a Cloudinary relay target from account credentials
func NewTarget(cfg *config.CloudinaryConfig) *Target {
	uploadURL := ""
	if cfg.CloudName != "" {
		uploadURL = fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cfg.CloudName)
	}
	return &Target{
		UploadURL:  uploadURL,
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		HTTPClient: http.DefaultClient,
		Now:        time.Now,
	}
}

// uploadResponse is the subset of Cloudinary's response the relay maps
type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload POSTs the staged file to the upload endpoint and maps the result
func (t *Target) Upload(ctx context.Context, upload *services.StagedUpload) (*services.UploadResult, error) {
	if t.UploadURL == "" || t.APIKey == "" || t.APISecret == "" {
		return nil, services.RemoteFailure("cloudinary credentials are not configured", nil)
	}

	f, err := upload.File.Open()
	if err != nil {
		return nil, services.RemoteFailure("failed to open staged payload", err)
	}
	defer f.Close()

	timestamp := strconv.FormatInt(t.Now().Unix(), 10)
	publicID := strings.TrimSuffix(upload.Filename, extension(upload.Filename))
	signature := t.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := [][2]string{
		{"api_key", t.APIKey},
		{"timestamp", timestamp},
		{"public_id", publicID},
		{"signature", signature},
	}
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return nil, services.RemoteFailure("failed to build upload form", err)
		}
	}
	part, err := form.CreateFormFile("file", upload.Filename)
	if err != nil {
		return nil, services.RemoteFailure("failed to build upload form", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, services.RemoteFailure("failed to read staged payload", err)
	}
	if err := form.Close(); err != nil {
		return nil, services.RemoteFailure("failed to build upload form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.UploadURL, &body)
	if err != nil {
		return nil, services.RemoteFailure("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, services.RemoteFailure("cloudinary upload failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, services.RemoteFailure("failed to read cloudinary response", err)
	}

	var out uploadResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag := out.Error.Message
		if diag == "" {
			diag = string(raw)
		}
		return nil, services.RemoteFailure(
			fmt.Sprintf("cloudinary upload returned status %d: %s", resp.StatusCode, diag), nil)
	}
	if out.SecureURL == "" {
		return nil, services.RemoteFailure("cloudinary response has no secure_url", nil)
	}

	return &services.UploadResult{URL: out.SecureURL, ID: out.PublicID}, nil
}

// sign produces the SHA-1 request signature over the sorted parameter
// string, per Cloudinary's signed-upload scheme.
func (t *Target) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + t.APISecret))
	return hex.EncodeToString(sum[:])
}

func extension(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		return filename[idx:]
	}
	return ""
}
