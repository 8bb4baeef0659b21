package shopapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenericErrorMessage is shown when the shop backend could not be reached or
// answered with something that carries no readable error text.
const GenericErrorMessage = "Network error. Please check your connection and try again."

// ErrMalformedResponse is returned when a 2xx body cannot be decoded into the
// expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx answer from the shop backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shop api: status %d: %s", e.StatusCode, e.Message)
}

// UserMessage turns any client error into the text shown to the buyer:
// the server-provided message for API errors, the generic text otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericErrorMessage
}

// errorMessage extracts readable text from an error body. The backend uses
// "error" for its own failures and "detail" for framework ones; "message"
// covers proxies in between.
func errorMessage(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return GenericErrorMessage
	}
	for _, key := range []string{"error", "detail", "message"} {
		v, ok := body[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return GenericErrorMessage
}
