package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const maxLoggedBodyBytes = 2048

// sensitiveFields are redacted from logged request bodies. Tokens and
// passwords must never land in the log pipeline.
var sensitiveFields = []string{
	"password", "current_password", "new_password", "otp",
	"token", "id_token", "authorization",
}

// RequestLogger emits one structured line per request. Request bodies are
// captured for mutating verbs only, truncated and redacted before logging.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			var bodySnippet string
			if req.Body != nil && req.Method != "GET" && req.Method != "HEAD" {
				data, err := io.ReadAll(io.LimitReader(req.Body, maxLoggedBodyBytes+1))
				if err == nil {
					req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), req.Body))
					bodySnippet = sanitizeBody(data, req.Header.Get(echo.HeaderContentType))
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := map[string]any{
				"time":       start.UTC().Format(time.RFC3339Nano),
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
			}
			if bodySnippet != "" {
				entry["body"] = bodySnippet
			}
			if err != nil {
				entry["error"] = err.Error()
			}

			line, marshalErr := json.Marshal(entry)
			if marshalErr == nil {
				log.Println(string(line))
			}
			return err
		}
	}
}

func sanitizeBody(data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}
	truncated := len(data) > maxLoggedBodyBytes
	if truncated {
		data = data[:maxLoggedBodyBytes]
	}

	if strings.Contains(contentType, echo.MIMEApplicationJSON) {
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err == nil {
			redactFields(payload)
			if clean, err := json.Marshal(payload); err == nil {
				return string(clean)
			}
		}
	}

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return "[multipart body omitted]"
	}
	if truncated {
		return string(data) + "...[truncated]"
	}
	return string(data)
}

func redactFields(payload map[string]any) {
	for key, value := range payload {
		lower := strings.ToLower(key)
		for _, sensitive := range sensitiveFields {
			if lower == sensitive {
				payload[key] = "[REDACTED]"
				break
			}
		}
		if nested, ok := value.(map[string]any); ok {
			redactFields(nested)
		}
	}
}
