package utils

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	phoneStripper  = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	setupValidator sync.Once
)

// NormalizePhone removes the separators people type into phone fields.
func NormalizePhone(phone string) string {
	return phoneStripper.Replace(strings.TrimSpace(phone))
}

// IsValidPhone checks an optional leading "+" and 9 to 15 digits.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// SetupValidator registers the custom tags on gin's validator engine and
// makes field errors use JSON names.
func SetupValidator() {
	setupValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
	})
}

// ValidationMessages maps field name to a readable message.
func ValidationMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = validationMessage(e)
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "phone":
		return "Invalid phone number"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	default:
		return "Invalid value"
	}
}
