package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mmtuentertainment/payplan/internal/pii"
)

func isDevelopment() bool {
	return os.Getenv("ENV") == "development" || os.Getenv("ENV") == "dev"
}

// SanitizeBody redacts a JSON request/response body via the PII sanitizer for callers
// outside this package that need a masked copy to log (e.g. the monitoring middleware).
func SanitizeBody(body string) string {
	return maskSensitiveFields(body)
}

// maskSensitiveFields redacts request/response bodies via the PII sanitizer before they
// are logged, replacing the field-list masker with the two-tier auth/PII matcher.
func maskSensitiveFields(body string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		sanitized := pii.Sanitize(data)
		if masked, err := json.Marshal(sanitized); err == nil {
			return string(masked)
		}
	}
	return body
}

// HandleRequestBody processes the request body for logging.
func HandleRequestBody(req *http.Request) string {
	if !isDevelopment() {
		return ""
	}
	var requestBodyBytes []byte
	if req.Body == nil {
		return ""
	}

	requestBodyBytes, _ = io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
	logged := requestBodyBytes
	if len(logged) > 2048 {
		logged = logged[:2048]
	}
	return maskSensitiveFields(string(logged))
}

// HandleResponseBody processes the response body for logging.
func HandleResponseBody(rw gin.ResponseWriter) *BodyLogWriter {
	return &BodyLogWriter{Body: bytes.NewBufferString(""), ResponseWriter: rw}
}
