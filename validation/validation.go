package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "notblank" rejects whitespace-only strings.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s using its `validate` tags. The returned Violations map
// a field name to the failed rule (e.g. "required", "max").
func Struct(s any) Violations {
	v := make(Violations)
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v["_"] = err.Error()
		return v
	}
	for _, fe := range verrs {
		v[fieldPath(fe)] = fe.Tag()
	}
	return v
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// OneOf records "oneof" when value is not among allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "oneof"
}

// RangeInt records "out_of_range" when val is outside [minVal, maxVal].
func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}
