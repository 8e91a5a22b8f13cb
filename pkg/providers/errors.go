package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// TransportError is returned when a provider answers with a non-2xx status.
// Message carries the provider's own error text when the body could be
// parsed, and the raw body otherwise.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.Status)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Message)
}

// IsTransportError reports whether err is a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ErrorFromResponse drains a failed HTTP response and builds a
// TransportError. It understands both the object form
// {"error":{"message":...}} and the flat form {"error":"..."}.
func ErrorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var objErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &objErr); err == nil && objErr.Error.Message != "" {
		return &TransportError{Status: resp.StatusCode, Message: objErr.Error.Message}
	}

	var flatErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flatErr); err == nil && flatErr.Error != "" {
		return &TransportError{Status: resp.StatusCode, Message: flatErr.Error}
	}

	return &TransportError{Status: resp.StatusCode, Message: string(body)}
}
