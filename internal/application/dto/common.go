package dto

// Valores del campo status del sobre de respuesta.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorResponse cuerpo de error HTTP: {"status":"error","code":...,"message":...}.
type ErrorResponse struct {
	Status  string               `json:"status"`
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Errors  []FieldErrorResponse `json:"errors,omitempty"`
}

// FieldErrorResponse error de validación de un campo.
type FieldErrorResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// NewErrorResponse construye el sobre de error.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Message: message}
}
