// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"estudeapostilas/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("url_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.Var(s, "url") == nil
	})
	return v
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

// check runs struct validation and converts the first failure into a
// ValidationError.
func (w *Workflow) check(s any) error {
	err := w.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "max":
		return fmt.Sprintf("máximo de %s caracteres", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser no mínimo %s", fe.Param())
	case "lte":
		return fmt.Sprintf("deve ser no máximo %s", fe.Param())
	case "url", "url_or_empty":
		return "URL inválida"
	case "category":
		return "categoria desconhecida"
	}
	return "valor inválido"
}
