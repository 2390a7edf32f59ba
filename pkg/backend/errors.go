package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrMalformedResponse = errors.New("malformed backend response")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Detail     string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: status %d: %s", e.StatusCode, e.Detail)
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Detail: http.StatusText(status)}
	if json.Valid(body) {
		e.Body = json.RawMessage(body)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			switch v := payload[key].(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					e.Detail = v
					return e
				}
			case nil:
			default:
				if raw, err := json.Marshal(v); err == nil {
					e.Detail = string(raw)
					return e
				}
			}
		}
		return e
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		e.Detail = text
	}
	return e
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
