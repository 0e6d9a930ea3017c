package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	Degrees = []string{"BE", "B.tech", "M.tech", "MCA", "BCA", "B.sc", "M.sc", "Ph.D"}

	Semesters = []string{
		"1st semester", "2nd semester", "3rd semester", "4th semester",
		"5th semester", "6th semester", "7th semester", "8th semester",
	}

	InternshipFields = []string{"Software Development", "Marketing", "Graphic Design", "Human Resources"}

	Availabilities = []string{"3", "6", "9"}
)

var mobilePattern = regexp.MustCompile(`^(\+\d{1,3}[- ]?)?\d{10}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared model validator with the custom rules
// (degree, semester, internship_field, availability, mobile) registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "degree", oneOf(Degrees))
		mustRegister(v, "semester", oneOf(Semesters))
		mustRegister(v, "internship_field", oneOf(InternshipFields))
		mustRegister(v, "availability", oneOf(Availabilities))
		mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
			return mobilePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("models: register %s validation: %v", tag, err))
	}
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		got := fl.Field().String()
		for _, v := range values {
			if v == got {
				return true
			}
		}
		return false
	}
}

// Contains reports whether value is one of values.
func Contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// checkStruct runs the model validator and converts the first failure into a
// validation error that names the offending field.
func checkStruct(model interface{}) error {
	err := Validator().Struct(model)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Internal("model validation failed", err)
	}
	return apperr.Validation(describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "email":
		return "Please enter a valid email address"
	case "mobile":
		return "Please enter a valid mobile number"
	case "gtfield":
		return "Deadline must be after the date given"
	case "degree":
		return "Please select a valid degree option"
	case "semester":
		return "Please select a valid semester"
	case "internship_field":
		return "Please select a valid Internship Field option"
	case "availability":
		return "Please select a valid availability"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
