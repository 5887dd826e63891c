package lambda

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
)

// FilePart is one decoded file field from a multipart request body
type FilePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// ParseFilePart decodes the request body as multipart/form-data and
// returns the part bound to the given field name. API Gateway delivers
// binary bodies base64-encoded, so the transport flag is honored first.
func ParseFilePart(req *Request, fieldName string) (*FilePart, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return nil, fmt.Errorf("request body is not valid base64: %w", err)
		}
		body = decoded
	}

	contentType := req.Header("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("expected multipart/form-data request body")
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("multipart boundary is missing")
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed multipart body: %w", err)
		}
		if part.FormName() != fieldName {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file part: %w", err)
		}

		return &FilePart{
			FieldName:   fieldName,
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	return nil, fmt.Errorf("missing %q field in multipart body", fieldName)
}
