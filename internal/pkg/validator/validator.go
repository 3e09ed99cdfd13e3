// Package validator checks generated recipes and API payloads against their struct tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report json names, they are what clients and the generator see
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Struct validates s and converts the first failure to *entity.ValidationError
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	fe := fieldErrs[0]
	sentinel := entity.ErrInvalidParameter
	if fe.Tag() == "required" || (fe.Tag() == "min" && fe.Kind() == reflect.Slice) {
		sentinel = entity.ErrMissingField
	}

	return &entity.ValidationError{
		Field: fieldPath(fe),
		Err:   fmt.Errorf("%w: failed %q", sentinel, tagWithParam(fe)),
	}
}

// Recipe validates a generated recipe
func (v *Validator) Recipe(recipe *entity.Recipe) error {
	if recipe == nil {
		return &entity.ValidationError{Field: "recipe", Err: entity.ErrEmptyResponse}
	}
	return v.Struct(recipe)
}

// fieldPath drops the root struct name: "Recipe.steps[0].instruction" -> "steps[0].instruction"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
