package lambda

import (
	"encoding/json"
	"net/http"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method          string            `json:"method"`
	Path            string            `json:"path"`
	Headers         map[string]string `json:"headers"`
	QueryParams     map[string]string `json:"query_params"`
	Body            []byte            `json:"body"`
	IsBase64Encoded bool              `json:"is_base64_encoded"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// corsHeaders is the permissive header set attached to every response
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization",
}

// Header returns a case-insensitive lookup of a request header
func (r *Request) Header(name string) string {
	for key, value := range r.Headers {
		if http.CanonicalHeaderKey(key) == http.CanonicalHeaderKey(name) {
			return value
		}
	}
	return ""
}

// Preflight builds the empty CORS response for OPTIONS requests
func Preflight() *Response {
	return &Response{
		StatusCode: http.StatusNoContent,
		Headers:    responseHeaders(""),
	}
}

// JSON builds a response with a JSON-encoded body and CORS headers
func JSON(statusCode int, body any) *Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		return &Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    responseHeaders("application/json"),
			Body:       []byte(`{"error": "Internal server error"}`),
		}
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    responseHeaders("application/json"),
		Body:       encoded,
	}
}

func responseHeaders(contentType string) map[string]string {
	headers := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return headers
}
