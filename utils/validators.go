package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeShape = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

var Validate *validator.Validate

// InitValidator registers the journal field validators on the standalone
// validator and on gin's binding engine.
func InitValidator() {
	Validate = validator.New()
	RegisterCustomValidators(Validate)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("datestr", ValidateDateRule)
	v.RegisterValidation("timestr", ValidateTimeRule)
}

func ValidateDateRule(fl validator.FieldLevel) bool {
	return ValidateDateString(fl.Field().String())
}

func ValidateTimeRule(fl validator.FieldLevel) bool {
	return ValidateTimeString(fl.Field().String())
}

// ValidateDateString checks the YYYY-MM-DD shape only. Values are never
// checked against real calendar bounds, so "2025-13-45" passes.
func ValidateDateString(s string) bool {
	return dateShape.MatchString(s)
}

// ValidateTimeString checks the HH:MM shape. The empty string passes
// because the clock time is optional.
func ValidateTimeString(s string) bool {
	if s == "" {
		return true
	}
	return timeShape.MatchString(s)
}
