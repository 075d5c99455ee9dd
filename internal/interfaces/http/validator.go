package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/mrp-api/internal/domain"
)

// Validator envoltorio sobre go-playground/validator que traduce las violaciones a domain.ValidationError.
type Validator struct {
	validate *validator.Validate
}

// NewValidator crea el validador usando los nombres JSON de los campos en los mensajes.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate valida un struct según sus tags. Devuelve *domain.ValidationError con el primer campo inválido.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s: %s", fieldPath(e), describeTag(e)))
	}
	return domain.NewValidationError(fieldPath(validationErrs[0]), strings.Join(messages, "; "))
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.items[0].product_id" → "items[0].product_id".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "email inválido"
	case "min":
		return "mínimo " + e.Param()
	case "max":
		return "máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	}
	return "falla la regla " + e.Tag()
}
