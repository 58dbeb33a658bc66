package utils

import (
	"reflect"
	"strings"
	"time"

	apperrors "github.com/agile-learning-aid/quiz-analytics-service/internal/errors"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Custom validation functions

func ValidateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

// ValidateFutureDate accepts time.Time and *time.Time fields; nil pointers pass.
func ValidateFutureDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}

	t, ok := field.Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

// Validator wraps the struct validator with this service's custom rules
// registered once.
type Validator struct {
	structValidator *validator.Validate
}

// NewValidator builds a validator with this service's custom rules registered.
func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{structValidator: validate}
}

// Validate checks struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Struct exposes raw struct-tag validation for callers that want the
// untranslated validator error.
func (v *Validator) Struct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", ValidateDifficultyLevel)
	validate.RegisterValidation("future_date", ValidateFutureDate)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
