package req

import (
	"errors"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

// LocalPathRule names the rule asserting a string field holds a path on this host.
const LocalPathRule = "localpath"

type validator struct {
	valid *v10.Validate
}

// newValidator constructs a validator naming fields by their "schema" tag
// and knowing the LocalPathRule.
func newValidator() validator {
	v := v10.New()
	v.RegisterValidation(LocalPathRule, validateLocalPath)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("schema"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return validator{v}
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags,
// translating each issue to a ValidationError.
func (v validator) validate(structPtr any) error {
	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	invalid := make(ValidationErrors, 0, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}

		invalid = append(invalid, ValidationError{Field: field, Got: fe.Value(), Rule: rule})
	}

	return invalid
}

func validateLocalPath(fl v10.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	return IsLocalPath(fl.Field().String())
}

// IsLocalPath asserts whether p is a path on this host,
// so redirecting to it cannot send a visitor elsewhere.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") &&
		!strings.HasPrefix(p, "//") &&
		!strings.HasPrefix(p, "/\\")
}
