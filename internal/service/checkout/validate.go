package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"association-storefront/internal/domain"
)

// ValidationError carries one message per rejected buyer field, keyed by the
// field's form name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid buyer details: " + strings.Join(names, ", ")
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]*[0-9]$`)

// validPhone accepts 7 to 15 digits with an optional leading plus and
// spaces or dashes between digits.
func validPhone(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if !phonePattern.MatchString(v) {
		return false
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("phone", validPhone); err != nil {
		panic(err)
	}
	return v
}

var fieldMessages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"phone":    "Enter a valid phone number.",
}

func normalizeBuyer(b domain.Buyer) domain.Buyer {
	return domain.Buyer{
		FullName: strings.TrimSpace(b.FullName),
		Email:    strings.TrimSpace(b.Email),
		Phone:    strings.TrimSpace(b.Phone),
		Address:  strings.TrimSpace(b.Address),
	}
}

func validateBuyer(v *validator.Validate, b domain.Buyer) error {
	err := v.Struct(b)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
