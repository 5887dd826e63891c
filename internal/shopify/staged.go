package shopify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/services"
)

const stagedUploadsCreateMutation = `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters { name value }
    }
    userErrors { field message }
  }
}`

const fileCreateMutation = `
mutation fileCreate($files: [FileCreateInput!]!) {
  fileCreate(files: $files) {
    files {
      __typename
      id
      ... on GenericFile { url }
      ... on MediaImage { image { url } }
    }
    userErrors { field message }
  }
}`

// unsupportedFormatMessage replaces Shopify's terse format-rejection
// validation message with a hint the caller can act on.
const unsupportedFormatMessage = "Unsupported image format. Please upload a JPEG, PNG, GIF or WebP file."

// Target relays uploads through Shopify's three-step staged upload flow:
// request a staged slot, POST the bytes to it, then register the staged
// resource as a file record. A failure at any step is terminal; no step
// is retried and no compensating cleanup of an orphaned staged slot is
// attempted.
type Target struct {
	client *Client
}

// NewTarget creates a staged-upload relay target for one store
func NewTarget(cfg *config.ShopifyConfig) *Target {
	return &Target{client: NewClient(cfg)}
}

// NewTargetWithClient wires an explicit client, used by tests
func NewTargetWithClient(client *Client) *Target {
	return &Target{client: client}
}

// Upload runs the three-call pipeline for one staged upload
func (t *Target) Upload(ctx context.Context, upload *services.StagedUpload) (*services.UploadResult, error) {
	target, err := t.createStagedUpload(ctx, upload)
	if err != nil {
		return nil, err
	}

	if err := t.transferBytes(ctx, target, upload); err != nil {
		return nil, err
	}

	return t.finalize(ctx, target, upload)
}

// createStagedUpload requests a single-use upload destination
func (t *Target) createStagedUpload(ctx context.Context, upload *services.StagedUpload) (*stagedTarget, error) {
	variables := map[string]any{
		"input": []map[string]any{{
			"resource":   "IMAGE",
			"filename":   upload.Filename,
			"mimeType":   upload.MimeType,
			"httpMethod": "POST",
			"fileSize":   strconv.FormatInt(upload.File.Size, 10),
		}},
	}

	var data stagedUploadsCreateData
	if err := t.client.mutate(ctx, stagedUploadsCreateMutation, variables, &data); err != nil {
		return nil, services.RemoteFailure("failed to create staged upload", err)
	}

	payload := data.StagedUploadsCreate
	if len(payload.UserErrors) > 0 {
		return nil, services.RemoteFailure(payload.UserErrors[0].Message, nil)
	}
	if len(payload.StagedTargets) != 1 {
		return nil, services.RemoteFailure("staged upload target missing from response", nil)
	}

	logrus.WithFields(logrus.Fields{
		"filename":   upload.Filename,
		"staged_url": payload.StagedTargets[0].URL,
	}).Debug("Staged upload slot created")

	return &payload.StagedTargets[0], nil
}

// transferBytes POSTs the scratch file to the staged destination,
// replaying every issued parameter in the order received before the
// file part itself.
func (t *Target) transferBytes(ctx context.Context, target *stagedTarget, upload *services.StagedUpload) error {
	f, err := upload.File.Open()
	if err != nil {
		return services.RemoteFailure("failed to open staged payload", err)
	}
	defer f.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for _, p := range target.Parameters {
		if err := form.WriteField(p.Name, p.Value); err != nil {
			return services.RemoteFailure("failed to build staged upload form", err)
		}
	}

	part, err := form.CreatePart(filePartHeader(upload.Filename, upload.MimeType))
	if err != nil {
		return services.RemoteFailure("failed to build staged upload form", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return services.RemoteFailure("failed to read staged payload", err)
	}
	if err := form.Close(); err != nil {
		return services.RemoteFailure("failed to build staged upload form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return services.RemoteFailure("failed to build staged upload request", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := t.client.HTTPClient.Do(req)
	if err != nil {
		return services.RemoteFailure("staged upload transfer failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return services.RemoteFailure(
			fmt.Sprintf("staged upload transfer returned status %d: %s", resp.StatusCode, diag), nil)
	}
	return nil
}

// finalize registers the staged resource as a permanent file record
func (t *Target) finalize(ctx context.Context, target *stagedTarget, upload *services.StagedUpload) (*services.UploadResult, error) {
	variables := map[string]any{
		"files": []map[string]any{{
			"originalSource": target.ResourceURL,
			"contentType":    "IMAGE",
			"filename":       upload.Filename,
			"alt":            upload.Filename,
		}},
	}

	var data fileCreateData
	if err := t.client.mutate(ctx, fileCreateMutation, variables, &data); err != nil {
		return nil, services.RemoteFailure("failed to finalize upload", err)
	}

	payload := data.FileCreate
	if len(payload.UserErrors) > 0 {
		return nil, services.RemoteFailure(rewriteFormatRejection(payload.UserErrors[0].Message), nil)
	}
	if len(payload.Files) != 1 {
		return nil, services.RemoteFailure("created file record missing from response", nil)
	}

	record := payload.Files[0]
	url := record.URL
	if url == "" {
		url = record.Image.URL
	}
	if url == "" {
		return nil, services.RemoteFailure("created file record has no addressable URL", nil)
	}

	return &services.UploadResult{URL: url, ID: record.ID}, nil
}

// filePartHeader builds the multipart header for the file field with the
// sanitized filename and MIME type.
func filePartHeader(filename, mimeType string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", mimeType)
	return h
}

// rewriteFormatRejection maps Shopify's known format-rejection message to
// a fixed user-actionable string; every other message passes through.
func rewriteFormatRejection(message string) string {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "not a valid image file type") || strings.Contains(lower, "invalid file type") {
		return unsupportedFormatMessage
	}
	return message
}
