package entity

import (
	"fmt"
	"net/http"
)

// ApiError is returned for any gateway response with a status other than 200.
// It carries the raw response so the caller can log or display it; the
// service itself never retries.
type ApiError struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
}

func (e *ApiError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("gateway response %s: %s", e.Status, body)
}

// NewApiError captures a response into a typed error. The body must already
// be read; the response stream is not touched here.
func NewApiError(response *http.Response, body []byte) *ApiError {
	return &ApiError{
		StatusCode: response.StatusCode,
		Status:     response.Status,
		Headers:    response.Header.Clone(),
		Body:       body,
	}
}
