package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNetwork - transport failure, 5xx response or an undecodable body.
var ErrNetwork = errors.New("network error")

// ErrValidation - the API rejected the request (4xx other than 404).
var ErrValidation = errors.New("validation error")

// ErrNotFound - the shortcode is unknown to the API.
var ErrNotFound = errors.New("not found")

// Error describes a failed API call. Kind is one of ErrNetwork,
// ErrValidation or ErrNotFound and is matched by errors.Is.
type Error struct {
	Kind   error
	Err    error
	Op     string
	Detail string
	Status int
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail returns the server-provided detail message of err, or fallback
// when err carries none.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// kindForStatus maps a non-2xx status code to an error kind.
func kindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return ErrValidation
	default:
		return ErrNetwork
	}
}

// parseDetail extracts "detail" from an error body. FastAPI sends either a
// string or, for request validation failures, a list of {"msg": ...} objects.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if it.Msg != "" {
			msgs = append(msgs, it.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}
