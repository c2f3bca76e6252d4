package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Accesos-api/internal/domain"
)

// validate aplica las etiquetas `validate` de los DTOs. Los campos se reportan con su nombre JSON.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateBody valida el DTO y devuelve domain.ErrInvalidInput con el detalle por campo.
func validateBody(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es obligatorio"
	case "email":
		return fe.Field() + " no es un email válido"
	case "max":
		return fmt.Sprintf("%s supera el máximo de %s caracteres", fe.Field(), fe.Param())
	case "startswith":
		return fmt.Sprintf("%s debe comenzar con %q", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
}
