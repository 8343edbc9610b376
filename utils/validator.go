package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidHHMM reports whether s is a 24-hour "HH:MM" time.
func ValidHHMM(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidDate reports whether s is a "YYYY-MM-DD" date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	return ValidHHMM(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	return ValidDate(fl.Field().String())
}

func validatePAN(fl validator.FieldLevel) bool {
	return panPattern.MatchString(strings.ToUpper(fl.Field().String()))
}

func validateAadhaar(fl validator.FieldLevel) bool {
	return aadhaarPattern.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// RegisterCustomValidations adds the domain tags to a validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"hhmm":    validateHHMM,
		"date":    validateDate,
		"pan":     validatePAN,
		"aadhaar": validateAadhaar,
		"phone10": validatePhone,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// RegisterValidators installs the custom tags on gin's binding validator and
// makes JSON binding reject unknown fields.
func RegisterValidators() error {
	binding.EnableDecoderDisallowUnknownFields = true
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterCustomValidations(v)
}

// TranslateValidationError turns validator output into a readable message.
func TranslateValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "hhmm":
		return fmt.Sprintf("%s must be a time in HH:MM format", field)
	case "date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "pan":
		return fmt.Sprintf("%s must be a valid PAN number", field)
	case "aadhaar":
		return fmt.Sprintf("%s must be a 12 digit Aadhaar number", field)
	case "phone10":
		return fmt.Sprintf("%s must be a 10 digit phone number", field)
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
