package services

import (
	"errors"
	"net/http"

	"github.com/yeremiapane/ekantin/sheets"
)

// Kind mengelompokkan error layanan untuk dipetakan ke status HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindConfig
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) *Error   { return newError(KindValidation, message) }
func unauthorizedError(message string) *Error { return newError(KindUnauthorized, message) }
func forbiddenError(message string) *Error    { return newError(KindForbidden, message) }
func notFoundError(message string) *Error     { return newError(KindNotFound, message) }
func conflictError(message string) *Error     { return newError(KindConflict, message) }
func configError(message string) *Error       { return newError(KindConfig, message) }

var (
	ErrScriptNotConfigured = configError("Google Script URL tidak dikonfigurasi")
	ErrKantinNotFound      = notFoundError("Kantin tidak ditemukan")
)

// KindOf mengembalikan Kind dari error; error lain dianggap internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// StatusCode memetakan error layanan ke status HTTP.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// upstreamError membungkus kegagalan gateway. Pesan asli dari gateway
// diteruskan ke client.
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	switch {
	case errors.Is(err, sheets.ErrNotConfigured):
		return &Error{Kind: KindConfig, Message: ErrScriptNotConfigured.Message, Err: err}
	case errors.Is(err, sheets.ErrHostNotAllowed):
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindUpstream, Message: err.Error(), Err: err}
}
