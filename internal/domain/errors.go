package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrMissingCredentials  = errors.New("faltan los headers requeridos (apiKey y/o secretKey)")
	ErrUnauthorized        = errors.New("apiKey o secretKey inválidos")
	ErrNoDefaultConfigured = errors.New("no hay valor por defecto configurado")
)

// FieldError describe un campo inválido del payload.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa los campos inválidos de una petición. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Msg    string
	Fields []FieldError
}

// NewValidationError construye un ValidationError con un mensaje general.
func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return e.Msg + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
