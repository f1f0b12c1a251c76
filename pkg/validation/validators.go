package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagRequiredIfOneOf makes a string field mandatory when a sibling field holds
// one of the listed values: `validate:"required_if_oneof=ItemType medical care"`.
const TagRequiredIfOneOf = "required_if_oneof"

// New returns a validator with the custom rules registered and json field
// names reported in errors.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	// Registering a static func with a non-empty tag cannot fail
	_ = v.RegisterValidation(TagRequiredIfOneOf, RequiredIfOneOf, true)
}

// RequiredIfOneOf implements TagRequiredIfOneOf. The first param word names
// the sibling field, the rest are the values that trigger the requirement.
func RequiredIfOneOf(fl validator.FieldLevel) bool {
	params := strings.Fields(fl.Param())
	if len(params) < 2 {
		return true
	}

	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	sibling := parent.FieldByName(params[0])
	if !sibling.IsValid() || sibling.Kind() != reflect.String {
		return true
	}

	current := strings.TrimSpace(sibling.String())
	for _, value := range params[1:] {
		if current == value {
			return strings.TrimSpace(fl.Field().String()) != ""
		}
	}
	return true
}
