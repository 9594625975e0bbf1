package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the transport boundary.
type Kind string

const (
	KindInput            Kind = "input"
	KindTooLarge         Kind = "too_large"
	KindUnsupportedMedia Kind = "unsupported_media"
	KindNotFound         Kind = "not_found"
	KindSessionBusy      Kind = "session_busy"
	KindRateLimited      Kind = "rate_limited"
	KindUnavailable      Kind = "unavailable"
	KindTimeout          Kind = "timeout"
	KindGeneration       Kind = "generation"
	KindInternal         Kind = "internal"
)

// Error is the canonical application error. Message is safe to show to users;
// Err carries the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so sentinels below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks. Message left empty so they match any message.
var (
	ErrInput            = &Error{Kind: KindInput}
	ErrTooLarge         = &Error{Kind: KindTooLarge}
	ErrUnsupportedMedia = &Error{Kind: KindUnsupportedMedia}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrSessionBusy      = &Error{Kind: KindSessionBusy}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrUnavailable      = &Error{Kind: KindUnavailable}
	ErrTimeout          = &Error{Kind: KindTimeout}
	ErrGeneration       = &Error{Kind: KindGeneration}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Input(message string) *Error {
	return New(KindInput, message)
}

func TooLarge(message string) *Error {
	return New(KindTooLarge, message)
}

func UnsupportedMedia(message string) *Error {
	return New(KindUnsupportedMedia, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unavailable(collaborator string) *Error {
	return New(KindUnavailable, collaborator+" no está disponible")
}

// EmptyInput is the terminal error for an empty transcript or message.
func EmptyInput() *Error {
	return New(KindInput, "No se pudo obtener texto de la entrada")
}

func SessionBusy() *Error {
	return New(KindSessionBusy, "Espera a que termine la respuesta en curso")
}

func RateLimited(err error) *Error {
	return Wrap(KindRateLimited, "El servicio está ocupado, intenta nuevamente en unos segundos", err)
}

func Timeout(collaborator string, err error) *Error {
	return Wrap(KindTimeout, collaborator+" tardó demasiado en responder", err)
}

func Generation(err error) *Error {
	return Wrap(KindGeneration, "No se pudo generar la respuesta", err)
}

// FromCollaborator classifies a raw collaborator failure. Deadline errors become
// timeouts; everything else keeps its kind when already canonical or falls back
// to the given kind.
func FromCollaborator(collaborator string, fallback Kind, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(collaborator, err)
	}
	return Wrap(fallback, collaborator+" falló", err)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindInput:
		return http.StatusBadRequest
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindNotFound:
		return http.StatusNotFound
	case KindSessionBusy, KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the user-facing detail for err. Unknown errors never
// leak their text.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timeout"
	}
	return "internal error"
}
