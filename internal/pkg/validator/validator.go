package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func registerCustomValidations() {
	validate.RegisterValidation("room_type", oneOf("Single", "Double", "Suite"))
	validate.RegisterValidation("bed_type", oneOf("King", "Queen", "Twin", "Sofa Bed"))

	// HH:MM, empty allowed (defaults apply)
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse("15:04", v)
		return err == nil
	})

	// YYYY-MM-DD or a full RFC 3339 timestamp
	validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if _, err := time.Parse(time.DateOnly, v); err == nil {
			return true
		}
		_, err := time.Parse(time.RFC3339, v)
		return err == nil
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "uuid":
			errors[field] = "Must be a valid UUID"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "room_type":
			errors[field] = "Invalid room type. Must be: Single, Double, or Suite"
		case "bed_type":
			errors[field] = "Invalid bed type. Must be: King, Queen, Twin, or Sofa Bed"
		case "clock":
			errors[field] = "Invalid time. Expected HH:MM"
		case "date":
			errors[field] = "Invalid date. Expected YYYY-MM-DD"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
