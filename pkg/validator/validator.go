package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describe un campo que falló la validación estructural.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s (%s=%s)", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s (%s)", e.Field, e.Tag)
}

// ValidateStruct valida un DTO según sus tags `validate` y devuelve los campos inválidos.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Summary concatena los errores en un mensaje legible para la respuesta HTTP.
func Summary(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}
