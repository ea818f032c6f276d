package sheets

import (
	"errors"
	"fmt"
)

const htmlResponseMessage = "Google Script returned HTML instead of JSON. Please check the script deployment settings (must be deployed as web app with CORS enabled)."

var (
	ErrNotConfigured  = errors.New("Google Script URL is not configured")
	ErrHostNotAllowed = errors.New("Google Script host is not allowed")
	ErrHTMLResponse   = errors.New(htmlResponseMessage)
	ErrInvalidJSON    = errors.New("Invalid JSON response from Google Script")
	ErrInvalidFormat  = errors.New("Invalid response format from Google Script")
	ErrUpstream       = errors.New("Google Script returned an error")
)

// StatusError dikembalikan bila script merespons dengan status non-2xx.
type StatusError struct {
	Code    int
	Status  string
	Snippet string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
	if e.Snippet != "" {
		msg += " - " + e.Snippet
	}
	return msg
}

// ScriptError membawa pesan error yang dikirim oleh script.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return ErrUpstream
}

// InvalidJSONError menyertakan potongan body yang gagal diparse.
type InvalidJSONError struct {
	Snippet string
	Err     error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidJSON.Error(), e.Snippet)
}

func (e *InvalidJSONError) Unwrap() error {
	return ErrInvalidJSON
}
