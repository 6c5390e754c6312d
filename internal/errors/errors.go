package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// serverMessageKey guarda en Metadata el "message" del API remoto.
// Details queda solo para diagnóstico y nunca se muestra al usuario.
const serverMessageKey = "server_message"

// AppError representa un error de aplicación con código HTTP y contexto
type AppError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Internal   error                  `json:"-"` // No se expone al cliente
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap permite usar errors.Is / errors.As sobre el error interno
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewAppError crea un nuevo error de aplicación
func NewAppError(statusCode int, code int, message string, internal error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Internal:   internal,
		StatusCode: statusCode,
		Metadata:   make(map[string]interface{}),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func (e *AppError) WithRetryable(retryable bool) *AppError {
	e.Retryable = retryable
	return e
}

var (
	// ErrValidation: parámetros de la URL incompletos, no hubo I/O
	ErrValidation = func(details string, err error) *AppError {
		return NewAppError(http.StatusUnprocessableEntity, 42200, "Validation error", err).
			WithDetails(details)
	}

	// ErrServiceUnavailable: fallo de transporte o breaker abierto
	ErrServiceUnavailable = func(details string, err error) *AppError {
		return NewAppError(http.StatusServiceUnavailable, 50300, "Service temporarily unavailable", err).
			WithDetails(details).
			WithRetryable(true)
	}

	// ErrExternalAPI: respuesta no-2xx; serverMessage es el "message" del cuerpo, si vino
	ErrExternalAPI = func(statusCode int, serverMessage string, err error) *AppError {
		appErr := NewAppError(http.StatusBadGateway, 50200, "External API error", err).
			WithMetadata("external_status_code", statusCode).
			WithRetryable(statusCode >= 500)
		if serverMessage != "" {
			appErr.WithMetadata(serverMessageKey, serverMessage)
		}
		return appErr
	}
)

// IsRetryable verifica si un error es reintentable
func IsRetryable(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode obtiene el código HTTP de un error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ExternalStatusCode devuelve el status que respondió el API externo, o 0.
func ExternalStatusCode(err error) int {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return 0
	}
	code, _ := appErr.Metadata["external_status_code"].(int)
	return code
}

// ServerMessage devuelve el mensaje que envió el servidor remoto, si existe.
// Solo ErrExternalAPI lo registra.
func ServerMessage(err error) (string, bool) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return "", false
	}
	msg, _ := appErr.Metadata[serverMessageKey].(string)
	return msg, msg != ""
}
