// Package validation wraps go-playground/validator with the rules used by
// request DTOs, and turns failures into 422 apperrors with per-field detail.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/chronospace/internal/apperror"
	"github.com/keyxmakerx/chronospace/internal/timestamp"
)

// HexColorPattern validates 7-character hex color strings (#RRGGBB).
const HexColorPattern = `^#[0-9a-fA-F]{6}$`

var hexColorRe = regexp.MustCompile(HexColorPattern)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names ("start_date") instead of Go names ("StartDate").
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "hexcolor6", func(fl validator.FieldLevel) bool {
			return hexColorRe.MatchString(fl.Field().String())
		})
		mustRegister(v, "timestamp", func(fl validator.FieldLevel) bool {
			return timestamp.Valid(fl.Field().String())
		})
		mustRegister(v, "notblank", validators.NotBlank)

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Struct validates s and returns a 422 apperror listing every failing
// field, or nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInternal(err)
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, typ := describe(fe)
		fields = append(fields, apperror.FieldError{
			Loc:  append([]string{"body"}, fieldPath(fe)...),
			Msg:  msg,
			Type: typ,
		})
	}
	return apperror.NewFieldValidation(fields...)
}

// BindAndValidate decodes the JSON request body into dst and validates it.
// Malformed JSON and type mismatches are reported as 422s against the body
// or the offending field.
func BindAndValidate(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return Struct(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.NewFieldError("Field required", "missing", "body")
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return apperror.NewFieldValidation(apperror.FieldError{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()),
			Type: typeErr.Type.Kind().String() + "_type",
		})
	case errors.As(err, &syntaxErr):
		return apperror.NewFieldError(
			fmt.Sprintf("JSON decode error at offset %d", syntaxErr.Offset), "json_invalid", "body")
	default:
		return apperror.NewFieldError("Invalid JSON body", "json_invalid", "body")
	}
}

// fieldPath drops the root struct name from the error namespace.
func fieldPath(fe validator.FieldError) []string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

// describe returns the client message and machine type for a failure.
func describe(fe validator.FieldError) (string, string) {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return "Field required", "missing"
	case "hexcolor6":
		return fmt.Sprintf("String should match pattern '%s'", HexColorPattern), "string_pattern_mismatch"
	case "timestamp":
		return "Input should be a valid datetime", "datetime_parsing"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("String should have at least %s characters", fe.Param()), "string_too_short"
		}
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param()), "greater_than_equal"
	case "max", "lte":
		if isString {
			return fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long"
		}
		return fmt.Sprintf("Input should be less than or equal to %s", fe.Param()), "less_than_equal"
	case "gt":
		return fmt.Sprintf("Input should be greater than %s", fe.Param()), "greater_than"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag()), fe.Tag()
	}
}
