package ucp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UpstreamError reports a non-2xx response from the UCP service, carrying
// the status code and the message from the upstream error body.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// newUpstreamError decodes the conventional {"error": "..."} body; any
// other non-empty body is carried verbatim.
func newUpstreamError(status int, body []byte) *UpstreamError {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &UpstreamError{StatusCode: status, Message: envelope.Error}
	}
	return &UpstreamError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
