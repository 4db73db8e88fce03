package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBatchUnsupported is returned when the backend has no batch endpoints.
var ErrBatchUnsupported = errors.New("backend does not support batch requests")

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Error is a failure reported by the backend through an HTTP error status.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// Message extracts the user-facing text of an error: the backend detail when present,
// otherwise the transport error text.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}

// decodeError turns a non-2xx response into an *Error.
// The detail field is usually a string; validation failures carry a structured value
// which is kept as compact JSON.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	if string(payload.Detail) == "null" {
		return apiErr
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, payload.Detail); err == nil {
		apiErr.Detail = compact.String()
	}

	return apiErr
}

// batchMissing reports whether a status means the batch endpoint does not exist.
func batchMissing(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	default:
		return false
	}
}
