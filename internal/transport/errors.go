package transport

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/simp-lee/posadmin/internal/domain"
)

// messageFields are the error body fields tried, in order, for the server's
// own description of a failure.
var messageFields = []string{"message", "title", "error", "detail"}

// statusError normalises a non-2xx response into the error taxonomy.
func statusError(status int, body []byte) *domain.AppError {
	return domain.NewStatusError(status, serverMessage(body))
}

// serverMessage extracts a human-readable message from an error body. Plain
// text bodies are used as-is; JSON bodies without a known field yield "".
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if !gjson.Valid(trimmed) {
		if len(trimmed) > 200 || strings.HasPrefix(trimmed, "<") {
			return ""
		}
		return trimmed
	}
	if r := gjson.Parse(trimmed); r.Type == gjson.String {
		return r.String()
	}
	for _, f := range messageFields {
		if r := gjson.Get(trimmed, f); r.Exists() && r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
