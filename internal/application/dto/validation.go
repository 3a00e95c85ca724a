package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/stings-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json para que los mensajes coincidan con el payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica los tags `validate` y traduce los errores a *domain.ValidationError.
func Validate(msg string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return domain.NewValidationError(msg, fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "email":
		return "debe ser un email válido"
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor a %s", fe.Param())
	case "max":
		return fmt.Sprintf("no debe exceder %s caracteres", fe.Param())
	case "datetime":
		return fmt.Sprintf("debe tener formato %s", fe.Param())
	default:
		return "es inválido"
	}
}

// FieldErrors convierte un *domain.ValidationError en la lista para la respuesta.
func FieldErrors(err error) []FieldErrorResponse {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]FieldErrorResponse, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, FieldErrorResponse{Field: f.Field, Error: f.Message})
	}
	return out
}
