// Package validation runs struct-tag validation on request models and
// reports failures as domain validation errors named after their JSON fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "impulsa/pkg/domain-errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

var validate = build()

func build() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	// Catalogue identifiers: lowercase letters, digits, '-' and '_'.
	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// jsonName reports fields by their wire name, falling back to snake_case
// for untagged fields.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return snake(f.Name)
	}
	return name
}

// Validate checks req against its validate tags. The first violation
// becomes the message of a CodeValidation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
}

// ErrorMessage renders the first field violation in err.
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]
	field := fieldPath(fe)
	if field == "" {
		return "invalid request body"
	}

	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email"
	case "uuid":
		return field + " must be a UUID"
	case "slug":
		return field + " must contain only lowercase letters, digits, '-' or '_'"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	}
	return field + " is invalid"
}

// fieldPath strips the root struct name from the namespace so nested
// failures read as "questions[1].options".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func snake(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		lower := strings.ToLower(string(r))
		if i > 0 && lower != string(r) {
			prevLower := strings.ToLower(string(rs[i-1])) == string(rs[i-1])
			nextLower := i+1 < len(rs) && strings.ToLower(string(rs[i+1])) == string(rs[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteString(lower)
	}
	return b.String()
}
