package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"upload-relay-api/internal/services"
	"upload-relay-api/pkg/lambda"
)

// UploadHandler handles upload relay HTTP requests
type UploadHandler struct {
	uploadService services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// @Summary Relay a file upload
// @Description Accept one multipart file upload and relay it to the configured storage target
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to relay"
// @Success 200 {object} services.UploadResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) RelayUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Missing or unreadable \"file\" field in multipart body",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unable to read uploaded file",
		})
		return
	}
	defer f.Close()

	result, err := h.uploadService.RelayUpload(c.Request.Context(), &services.UploadRequest{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Body:     f,
		Size:     fileHeader.Size,
	})
	if err != nil {
		status, message := classifyError(err)
		c.JSON(status, ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRelayUpload is the serverless entrypoint for the same operation.
// Preflight and method gating happen here because there is no router in
// front of a single-function deployment.
func (h *UploadHandler) HandleRelayUpload(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return lambda.Preflight(), nil
	case http.MethodPost:
		// fall through to the pipeline
	default:
		return lambda.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"}), nil
	}

	part, err := lambda.ParseFilePart(req, "file")
	if err != nil {
		return lambda.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()}), nil
	}

	result, err := h.uploadService.RelayUpload(ctx, &services.UploadRequest{
		Filename: part.Filename,
		MimeType: part.ContentType,
		Body:     bytes.NewReader(part.Data),
		Size:     int64(len(part.Data)),
	})
	if err != nil {
		status, message := classifyError(err)
		return lambda.JSON(status, ErrorResponse{Error: message}), nil
	}

	return lambda.JSON(http.StatusOK, result), nil
}
